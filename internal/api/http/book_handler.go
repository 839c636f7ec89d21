package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/service"
)

type BookHandler struct {
	books service.BookService
}

func NewBookHandler(books service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

func parsePage(r *http.Request) (int32, int32) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return int32(page), int32(limit)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

type bookRequest struct {
	Titulo          string     `json:"titulo"`
	Autor           string     `json:"autor"`
	ISBN            string     `json:"isbn"`
	Editorial       string     `json:"editorial"`
	CategoriaID     *uuid.UUID `json:"categoria_id"`
	AnioPublicacion int32      `json:"anio_publicacion"`
	CantidadTotal   int32      `json:"cantidad_total"`
	Ubicacion       string     `json:"ubicacion"`
	Descripcion     string     `json:"descripcion"`
}

func (req *bookRequest) toDomain() *domain.Book {
	return &domain.Book{
		Titulo:          req.Titulo,
		Autor:           req.Autor,
		ISBN:            req.ISBN,
		Editorial:       req.Editorial,
		CategoriaID:     req.CategoriaID,
		AnioPublicacion: req.AnioPublicacion,
		CantidadTotal:   req.CantidadTotal,
		Ubicacion:       req.Ubicacion,
		Descripcion:     req.Descripcion,
	}
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePage(r)
	filter := domain.BookFilter{
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}
	if cat := r.URL.Query().Get("categoria"); cat != "" {
		id, err := uuid.Parse(cat)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "categoría inválida"})
			return
		}
		filter.CategoriaID = &id
	}

	books, pagination, err := h.books.ListBooks(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"libros":     books,
		"pagination": pagination,
	})
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de libro inválido"})
		return
	}
	book, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cuerpo de petición inválido"})
		return
	}
	book := req.toDomain()
	if err := h.books.CreateBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Libro creado exitosamente",
		"libro":   book,
	})
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de libro inválido"})
		return
	}
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cuerpo de petición inválido"})
		return
	}
	book := req.toDomain()
	book.ID = id
	if err := h.books.UpdateBook(r.Context(), book); err != nil {
		writeError(w, err)
		return
	}
	updated, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Libro actualizado exitosamente",
		"libro":   updated,
	})
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ID de libro inválido"})
		return
	}
	if err := h.books.DeleteBook(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Libro eliminado exitosamente"})
}
