package unit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/policy"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) List(ctx context.Context, page, limit int32) ([]domain.User, int64, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]domain.User), args.Get(1).(int64), args.Error(2)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Book), args.Get(1).(int64), args.Error(2)
}
func (m *MockBookRepo) ReserveCopy(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) ReleaseCopy(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) CreateActive(ctx context.Context, loan *domain.Loan, pol policy.LoanPolicy) error {
	args := m.Called(ctx, loan, pol)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Return(ctx context.Context, id uuid.UUID, observaciones string, returnedAt time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, id, observaciones, returnedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Renew(ctx context.Context, id uuid.UUID, newDueDate time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, id, newDueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Loan), args.Get(1).(int64), args.Error(2)
}
func (m *MockLoanRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Stats(ctx context.Context) (*domain.LoanStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanStats), args.Error(1)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, nombre, titulo string, dueDate string) error {
	args := m.Called(ctx, email, nombre, titulo, dueDate)
	return args.Error(0)
}
