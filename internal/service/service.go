package service

import (
	"context"

	"github.com/google/uuid"

	"biblioteca-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, nombre, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
}

type BookService interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id uuid.UUID) error
	ListBooks(ctx context.Context, filter domain.BookFilter) ([]domain.Book, domain.Pagination, error)
}

type LoanService interface {
	// CreateLoan admits a new loan. A nil diasPrestamo means the default
	// duration; an explicit out-of-range value (including 0) is rejected.
	CreateLoan(ctx context.Context, usuarioID, libroID uuid.UUID, diasPrestamo *int) (*domain.Loan, error)
	GetLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ReturnLoan(ctx context.Context, id uuid.UUID, observaciones string) (*domain.Loan, error)
	RenewLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, domain.Pagination, error)
	GetStats(ctx context.Context) (*domain.LoanStats, error)
}

type UserService interface {
	ListUsers(ctx context.Context, page, limit int32) ([]domain.User, domain.Pagination, error)
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type EmailService interface {
	SendOverdueReminder(ctx context.Context, email, nombre, titulo string, dueDate string) error
}
