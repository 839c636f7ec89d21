package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"biblioteca-backend/internal/domain"
)

func TestBookHandler_Create(t *testing.T) {
	body := map[string]any{"titulo": "El Aleph", "autor": "Borges", "cantidad_total": 3}

	t.Run("Success", func(t *testing.T) {
		api := newTestAPI(t)
		api.books.On("CreateBook", mock.Anything, mock.MatchedBy(func(b *domain.Book) bool {
			return b.Titulo == "El Aleph" && b.CantidadTotal == 3
		})).Return(nil)

		rec := api.do(http.MethodPost, "/api/libros", api.adminToken, body)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("Duplicate ISBN", func(t *testing.T) {
		api := newTestAPI(t)
		api.books.On("CreateBook", mock.Anything, mock.AnythingOfType("*domain.Book")).
			Return(domain.ErrDuplicateISBN)

		rec := api.do(http.MethodPost, "/api/libros", api.adminToken, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Requires Admin Role", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodPost, "/api/libros", api.userToken, body)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		api.books.AssertNotCalled(t, "CreateBook")
	})
}

func TestBookHandler_Get(t *testing.T) {
	bookID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		api := newTestAPI(t)
		api.books.On("GetBook", mock.Anything, bookID).
			Return(&domain.Book{ID: bookID, Titulo: "El Aleph"}, nil)

		rec := api.do(http.MethodGet, "/api/libros/"+bookID.String(), "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var book domain.Book
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
		assert.Equal(t, "El Aleph", book.Titulo)
	})

	t.Run("Not Found", func(t *testing.T) {
		api := newTestAPI(t)
		api.books.On("GetBook", mock.Anything, bookID).
			Return(nil, domain.ErrNotFound)

		rec := api.do(http.MethodGet, "/api/libros/"+bookID.String(), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookHandler_List(t *testing.T) {
	t.Run("Passes Search And Category", func(t *testing.T) {
		api := newTestAPI(t)
		categoriaID := uuid.New()

		api.books.On("ListBooks", mock.Anything, mock.MatchedBy(func(f domain.BookFilter) bool {
			return f.Search == "borges" && f.CategoriaID != nil && *f.CategoriaID == categoriaID
		})).Return([]domain.Book{{Titulo: "El Aleph"}}, domain.Pagination{Page: 1, Limit: 10, Total: 1, Pages: 1}, nil)

		rec := api.do(http.MethodGet,
			fmt.Sprintf("/api/libros?search=borges&categoria=%s", categoriaID), "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Rejects Bad Category", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(http.MethodGet, "/api/libros?categoria=abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookHandler_Delete(t *testing.T) {
	bookID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		api := newTestAPI(t)
		api.books.On("DeleteBook", mock.Anything, bookID).Return(nil)

		rec := api.do(http.MethodDelete, "/api/libros/"+bookID.String(), api.adminToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Blocked By Active Loans", func(t *testing.T) {
		api := newTestAPI(t)
		api.books.On("DeleteBook", mock.Anything, bookID).Return(domain.ErrHasActiveLoans)

		rec := api.do(http.MethodDelete, "/api/libros/"+bookID.String(), api.adminToken, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp["status"])
}
