package domain

import "errors"

// Business-rule and storage-boundary errors. Services return these
// wrapped with context; the HTTP layer maps them to status codes with
// errors.Is.
var (
	// ErrNotFound covers absent or inactive entities.
	ErrNotFound = errors.New("recurso no encontrado")

	// ErrValidation covers malformed or missing input.
	ErrValidation = errors.New("datos de entrada inválidos")

	// ErrBookUnavailable: no copies left, including the case where a
	// concurrent borrower took the last copy after the policy check.
	ErrBookUnavailable = errors.New("libro no disponible")

	// ErrLoanLimitReached: the user already holds the maximum number of
	// active loans.
	ErrLoanLimitReached = errors.New("el usuario ya tiene el máximo de libros permitidos")

	// ErrInvalidDuration: requested loan days outside the allowed range.
	ErrInvalidDuration = errors.New("duración de préstamo inválida")

	// ErrInvalidState: the loan is not in a state that admits the
	// requested transition (e.g. returning an already returned loan).
	ErrInvalidState = errors.New("el préstamo no está en un estado válido para esta operación")

	// ErrLoanOverdue: renewal denied because the loan is past due.
	ErrLoanOverdue = errors.New("el préstamo está vencido y no puede renovarse")

	// ErrHasActiveLoans: book deletion blocked by outstanding loans.
	ErrHasActiveLoans = errors.New("el libro tiene préstamos activos")

	// ErrDuplicateISBN: unique-ISBN collision at the storage boundary.
	ErrDuplicateISBN = errors.New("el ISBN ya existe")

	// ErrCopiesExceedTotal: a release would push cantidad_disponible
	// past cantidad_total. Indicates a bug that escaped the transaction
	// guarantees; surfaced, never clamped.
	ErrCopiesExceedTotal = errors.New("cantidad disponible excedería la cantidad total")

	// ErrInvalidCredentials: login failure, deliberately unspecific.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)

// Pagination is the metadata block returned by every list endpoint.
type Pagination struct {
	Page  int32 `json:"page"`
	Limit int32 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes page count as ceil(total/limit).
func NewPagination(page, limit int32, total int64) Pagination {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
