package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/logger"
	"biblioteca-backend/internal/policy"
	"biblioteca-backend/internal/repository"
)

type loanService struct {
	loanRepo repository.LoanRepository
	pol      policy.LoanPolicy
	now      func() time.Time
}

func NewLoanService(loanRepo repository.LoanRepository, pol policy.LoanPolicy) LoanService {
	return &loanService{
		loanRepo: loanRepo,
		pol:      pol,
		now:      time.Now,
	}
}

// CreateLoan validates the requested duration, computes the due date
// and hands the admission to the repository, which evaluates the
// policy and reserves the copy inside a single transaction. An absent
// duration resolves to the policy default; an explicit 0 does not.
func (s *loanService) CreateLoan(ctx context.Context, usuarioID, libroID uuid.UUID, diasPrestamo *int) (*domain.Loan, error) {
	if usuarioID == uuid.Nil || libroID == uuid.Nil {
		return nil, fmt.Errorf("%w: usuario_id y libro_id son requeridos", domain.ErrValidation)
	}

	dias := s.pol.DefaultLoanDays
	if diasPrestamo != nil {
		var err error
		dias, err = s.pol.ValidateDuration(*diasPrestamo)
		if err != nil {
			return nil, err
		}
	}

	loan := &domain.Loan{
		UsuarioID:               usuarioID,
		LibroID:                 libroID,
		FechaDevolucionEsperada: policy.ComputeDueDate(s.now(), dias),
	}
	if err := s.loanRepo.CreateActive(ctx, loan, s.pol); err != nil {
		return nil, err
	}

	logger.Info("Préstamo creado", "prestamo_id", loan.ID, "usuario_id", usuarioID, "libro_id", libroID, "dias", dias)
	return s.loanRepo.GetByID(ctx, loan.ID)
}

func (s *loanService) GetLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loan.Vencido = loan.IsOverdue(s.now())
	return loan, nil
}

func (s *loanService) ReturnLoan(ctx context.Context, id uuid.UUID, observaciones string) (*domain.Loan, error) {
	loan, err := s.loanRepo.Return(ctx, id, observaciones, s.now())
	if err != nil {
		return nil, err
	}
	logger.Info("Libro devuelto", "prestamo_id", loan.ID, "libro_id", loan.LibroID)
	return loan, nil
}

// RenewLoan extends the due date by the default duration counted from
// today, not from the original date. Overdue loans cannot be renewed,
// and a loan already in estado renovado fails the state precondition,
// so each loan renews at most once.
func (s *loanService) RenewLoan(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	current, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Estado != domain.LoanStatusActivo {
		return nil, domain.ErrInvalidState
	}
	if current.IsOverdue(s.now()) {
		return nil, domain.ErrLoanOverdue
	}

	newDue := policy.ComputeDueDate(s.now(), s.pol.DefaultLoanDays)
	loan, err := s.loanRepo.Renew(ctx, id, newDue)
	if err != nil {
		return nil, err
	}
	logger.Info("Préstamo renovado", "prestamo_id", loan.ID, "nueva_fecha", newDue.Format("2006-01-02"))
	return loan, nil
}

func (s *loanService) ListLoans(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, domain.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	loans, total, err := s.loanRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	now := s.now()
	for i := range loans {
		loans[i].Vencido = loans[i].IsOverdue(now)
	}
	return loans, domain.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *loanService) GetStats(ctx context.Context) (*domain.LoanStats, error) {
	return s.loanRepo.Stats(ctx)
}
