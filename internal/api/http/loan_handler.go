package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/service"
)

type LoanHandler struct {
	loans service.LoanService
}

func NewLoanHandler(loans service.LoanService) *LoanHandler {
	return &LoanHandler{loans: loans}
}

func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	filter := domain.LoanFilter{
		Estado: domain.LoanStatus(r.URL.Query().Get("estado")),
		Page:   page,
		Limit:  limit,
	}
	if uid := r.URL.Query().Get("usuario_id"); uid != "" {
		id, err := uuid.Parse(uid)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de usuario inválido"})
			return
		}
		filter.UsuarioID = &id
	}

	loans, pagination, err := h.loans.ListLoans(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"prestamos":  loans,
		"pagination": pagination,
	})
}

func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de préstamo inválido"})
		return
	}
	loan, err := h.loans.GetLoan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// DiasPrestamo is a pointer so an omitted field (default duration) is
// distinguishable from an explicit, rejectable 0.
type createLoanRequest struct {
	UsuarioID    uuid.UUID `json:"usuario_id"`
	LibroID      uuid.UUID `json:"libro_id"`
	DiasPrestamo *int      `json:"dias_prestamo"`
}

func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cuerpo de petición inválido"})
		return
	}

	loan, err := h.loans.CreateLoan(r.Context(), req.UsuarioID, req.LibroID, req.DiasPrestamo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Préstamo creado exitosamente",
		"prestamo": loan,
	})
}

type returnLoanRequest struct {
	Observaciones string `json:"observaciones"`
}

func (h *LoanHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de préstamo inválido"})
		return
	}
	var req returnLoanRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cuerpo de petición inválido"})
			return
		}
	}

	loan, err := h.loans.ReturnLoan(r.Context(), id, req.Observaciones)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Libro devuelto exitosamente",
		"prestamo": loan,
	})
}

func (h *LoanHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de préstamo inválido"})
		return
	}
	loan, err := h.loans.RenewLoan(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Préstamo renovado exitosamente",
		"prestamo": loan,
	})
}

func (h *LoanHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.loans.GetStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
