package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth       *AuthHandler
	Books      *BookHandler
	Loans      *LoanHandler
	Users      *UserHandler
	Categories *CategoryHandler
	Middleware *AuthMiddleware
}

// NewRouter builds the API route table. Catalog reads are public, loan
// queries require a session and mutations require the administrador role.
func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.Handle("/auth/perfil", h.Middleware.RequireAuth(http.HandlerFunc(h.Auth.Profile))).Methods(http.MethodGet)

	api.HandleFunc("/libros", h.Books.List).Methods(http.MethodGet)
	api.HandleFunc("/libros/{id}", h.Books.Get).Methods(http.MethodGet)
	api.Handle("/libros", h.Middleware.RequireAdmin(http.HandlerFunc(h.Books.Create))).Methods(http.MethodPost)
	api.Handle("/libros/{id}", h.Middleware.RequireAdmin(http.HandlerFunc(h.Books.Update))).Methods(http.MethodPut)
	api.Handle("/libros/{id}", h.Middleware.RequireAdmin(http.HandlerFunc(h.Books.Delete))).Methods(http.MethodDelete)

	api.HandleFunc("/categorias", h.Categories.List).Methods(http.MethodGet)

	api.Handle("/prestamos", h.Middleware.RequireAuth(http.HandlerFunc(h.Loans.List))).Methods(http.MethodGet)
	api.Handle("/prestamos/estadisticas", h.Middleware.RequireAuth(http.HandlerFunc(h.Loans.Stats))).Methods(http.MethodGet)
	api.Handle("/prestamos/{id}", h.Middleware.RequireAuth(http.HandlerFunc(h.Loans.Get))).Methods(http.MethodGet)
	api.Handle("/prestamos", h.Middleware.RequireAdmin(http.HandlerFunc(h.Loans.Create))).Methods(http.MethodPost)
	api.Handle("/prestamos/{id}/devolver", h.Middleware.RequireAdmin(http.HandlerFunc(h.Loans.Return))).Methods(http.MethodPut)
	api.Handle("/prestamos/{id}/renovar", h.Middleware.RequireAdmin(http.HandlerFunc(h.Loans.Renew))).Methods(http.MethodPut)

	api.Handle("/usuarios", h.Middleware.RequireAdmin(http.HandlerFunc(h.Users.List))).Methods(http.MethodGet)

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
