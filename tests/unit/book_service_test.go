package unit

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/service"
)

func TestBookService_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		book := &domain.Book{Titulo: "El Aleph", Autor: "Borges", CantidadTotal: 3}
		bookRepo.On("Create", ctx, book).Return(nil)

		err := svc.CreateBook(ctx, book)
		assert.NoError(t, err)
		bookRepo.AssertExpectations(t)
	})

	t.Run("Missing Title", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		err := svc.CreateBook(ctx, &domain.Book{Autor: "Borges", CantidadTotal: 1})
		assert.ErrorIs(t, err, domain.ErrValidation)
		bookRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Missing Author", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		err := svc.CreateBook(ctx, &domain.Book{Titulo: "El Aleph", CantidadTotal: 1})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Zero Copies", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		err := svc.CreateBook(ctx, &domain.Book{Titulo: "El Aleph", Autor: "Borges"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Duplicate ISBN", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		book := &domain.Book{Titulo: "El Aleph", Autor: "Borges", ISBN: "978-84-376-0494-7", CantidadTotal: 1}
		bookRepo.On("Create", ctx, book).Return(domain.ErrDuplicateISBN)

		err := svc.CreateBook(ctx, book)
		assert.ErrorIs(t, err, domain.ErrDuplicateISBN)
	})
}

func TestBookService_DeleteBook(t *testing.T) {
	ctx := context.Background()
	bookID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		bookRepo.On("SoftDelete", ctx, bookID).Return(nil)

		err := svc.DeleteBook(ctx, bookID)
		assert.NoError(t, err)
	})

	t.Run("Blocked By Active Loans", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		bookRepo.On("SoftDelete", ctx, bookID).Return(domain.ErrHasActiveLoans)

		err := svc.DeleteBook(ctx, bookID)
		assert.ErrorIs(t, err, domain.ErrHasActiveLoans)
	})
}

func TestBookService_ListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("Passes Filter And Paginates", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		filter := domain.BookFilter{Search: "garcía", Page: 2, Limit: 5}
		bookRepo.On("List", ctx, filter).Return([]domain.Book{{Titulo: "Cien años de soledad"}}, int64(11), nil)

		books, pagination, err := svc.ListBooks(ctx, filter)
		assert.NoError(t, err)
		assert.Len(t, books, 1)
		assert.Equal(t, int32(2), pagination.Page)
		assert.Equal(t, int64(3), pagination.Pages)
	})

	t.Run("Defaults Page And Limit", func(t *testing.T) {
		bookRepo := new(MockBookRepo)
		svc := service.NewBookService(bookRepo)

		bookRepo.On("List", ctx, domain.BookFilter{Page: 1, Limit: 10}).
			Return([]domain.Book{}, int64(0), nil)

		_, pagination, err := svc.ListBooks(ctx, domain.BookFilter{})
		assert.NoError(t, err)
		assert.Equal(t, int32(10), pagination.Limit)
	})
}
