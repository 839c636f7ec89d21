package policy

import (
	"time"

	"biblioteca-backend/internal/domain"
)

// Defaults applied when the configuration does not override them.
const (
	DefaultMaxLoansPerUser = 3
	DefaultLoanDays        = 15
	MaxLoanDays            = 30
)

// LoanPolicy holds the tunable loan rules. It is loaded once from
// configuration and injected; it is never read from storage per call.
type LoanPolicy struct {
	MaxLoansPerUser int
	DefaultLoanDays int
	MaxLoanDays     int
}

// Default returns the policy with built-in defaults.
func Default() LoanPolicy {
	return LoanPolicy{
		MaxLoansPerUser: DefaultMaxLoansPerUser,
		DefaultLoanDays: DefaultLoanDays,
		MaxLoanDays:     MaxLoanDays,
	}
}

// CanCreateLoan decides whether a new loan may be created given the
// user's active-loan count and the book's available copies. It is pure:
// callers must evaluate it inside the same atomic scope as the
// reservation to avoid a check-then-act race.
func (p LoanPolicy) CanCreateLoan(activeLoans int, availableCopies int32) error {
	if availableCopies <= 0 {
		return domain.ErrBookUnavailable
	}
	if activeLoans >= p.MaxLoansPerUser {
		return domain.ErrLoanLimitReached
	}
	return nil
}

// ValidateDuration checks a requested loan duration in days. Zero and
// negative durations are rejected; callers that want the default must
// ask for it explicitly instead of passing a zero value.
func (p LoanPolicy) ValidateDuration(days int) (int, error) {
	if days < 1 || days > p.MaxLoanDays {
		return 0, domain.ErrInvalidDuration
	}
	return days, nil
}

// ComputeDueDate returns the expected return date: the start date plus
// the given number of calendar days, truncated to midnight.
func ComputeDueDate(start time.Time, days int) time.Time {
	d := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return d.AddDate(0, 0, days)
}
