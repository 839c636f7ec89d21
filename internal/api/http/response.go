package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the domain error taxonomy to HTTP status codes.
// Unrecognized errors are logged and reported as a generic 500 so
// internal detail never leaks to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrDuplicateISBN),
		errors.Is(err, domain.ErrBookUnavailable),
		errors.Is(err, domain.ErrLoanLimitReached),
		errors.Is(err, domain.ErrHasActiveLoans):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrLoanOverdue):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		logger.Error("Error interno", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error interno del servidor"})
	}
}
