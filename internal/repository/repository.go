package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/policy"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, page, limit int32) ([]domain.User, int64, error)
}

// BookRepository owns the libros table, including the availability
// counters. ReserveCopy and ReleaseCopy are the only mutations of
// cantidad_disponible; both are atomic with respect to the book row.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	// SoftDelete marks the book inactive. It fails with
	// domain.ErrHasActiveLoans while any loan on the book is active.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, int64, error)
	// ReserveCopy atomically decrements cantidad_disponible if a copy is
	// available; returns domain.ErrBookUnavailable otherwise.
	ReserveCopy(ctx context.Context, id uuid.UUID) error
	// ReleaseCopy atomically increments cantidad_disponible; returns
	// domain.ErrCopiesExceedTotal if it would exceed cantidad_total.
	ReleaseCopy(ctx context.Context, id uuid.UUID) error
}

// LoanRepository owns the prestamos table. CreateActive and Return are
// single SQL transactions spanning the loan row and the book's
// availability counter; partial application is never observable.
type LoanRepository interface {
	// CreateActive runs the whole admission transaction: count the
	// user's active loans, evaluate the policy against the locked book
	// row, reserve a copy and insert the loan. Fails with
	// domain.ErrNotFound, domain.ErrBookUnavailable or
	// domain.ErrLoanLimitReached.
	CreateActive(ctx context.Context, loan *domain.Loan, pol policy.LoanPolicy) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)
	// Return transitions an active loan to devuelto and releases its
	// copy, atomically. Fails with domain.ErrNotFound or
	// domain.ErrInvalidState.
	Return(ctx context.Context, id uuid.UUID, observaciones string, returnedAt time.Time) (*domain.Loan, error)
	// Renew extends the expected return date of a loan that is still in
	// estado activo and marks it renovado. The conditional update guards
	// against concurrent transitions.
	Renew(ctx context.Context, id uuid.UUID, newDueDate time.Time) (*domain.Loan, error)
	List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, int64, error)
	// ListOverdue returns active loans past their expected return date,
	// joined with user and book display fields, for reminder jobs.
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error)
	Stats(ctx context.Context) (*domain.LoanStats, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
}
