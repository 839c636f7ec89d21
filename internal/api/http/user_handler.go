package http

import (
	"net/http"

	"biblioteca-backend/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	users, pagination, err := h.users.ListUsers(r.Context(), page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"usuarios":   users,
		"pagination": pagination,
	})
}
