package postgres

import (
	"context"
	"database/sql"

	"biblioteca-backend/internal/repository"

	_ "github.com/lib/pq"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the availability
// helpers can run inside the loan transactions.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BookRepository
	repository.LoanRepository
	repository.CategoryRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		UserRepository:     NewUserRepository(db),
		BookRepository:     NewBookRepository(db),
		LoanRepository:     NewLoanRepository(db),
		CategoryRepository: NewCategoryRepository(db),
	}
}
