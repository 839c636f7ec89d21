package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/logger"
	"biblioteca-backend/internal/repository"
)

type bookService struct {
	bookRepo repository.BookRepository
}

func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

func validateBook(b *domain.Book) error {
	if strings.TrimSpace(b.Titulo) == "" {
		return fmt.Errorf("%w: título requerido", domain.ErrValidation)
	}
	if strings.TrimSpace(b.Autor) == "" {
		return fmt.Errorf("%w: autor requerido", domain.ErrValidation)
	}
	if b.CantidadTotal < 1 {
		return fmt.Errorf("%w: cantidad total debe ser mayor a 0", domain.ErrValidation)
	}
	return nil
}

func (s *bookService) CreateBook(ctx context.Context, book *domain.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return err
	}
	logger.Info("Libro creado", "libro_id", book.ID, "titulo", book.Titulo)
	return nil
}

func (s *bookService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *bookService) UpdateBook(ctx context.Context, book *domain.Book) error {
	if err := validateBook(book); err != nil {
		return err
	}
	return s.bookRepo.Update(ctx, book)
}

// DeleteBook soft-deletes. The repository refuses while any loan on
// the book is still active.
func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.bookRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Info("Libro eliminado", "libro_id", id)
	return nil
}

func (s *bookService) ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, domain.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	books, total, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return books, domain.NewPagination(filter.Page, filter.Limit, total), nil
}
