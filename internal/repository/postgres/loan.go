package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/policy"
	"biblioteca-backend/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

// CreateActive admits a new loan in one transaction. The SELECT FOR
// UPDATE on the book row serializes concurrent admissions for the same
// book, so the policy decision and the reservation happen in the same
// atomic scope: no two transactions can both take the last copy.
func (r *loanRepository) CreateActive(ctx context.Context, loan *domain.Loan, pol policy.LoanPolicy) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var disponible int32
	err = tx.QueryRowContext(ctx,
		`SELECT cantidad_disponible FROM libros WHERE id = $1 AND activo = true FOR UPDATE`,
		loan.LibroID).Scan(&disponible)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock libro: %w", err)
	}

	var activos int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prestamos WHERE usuario_id = $1 AND estado IN ('activo', 'renovado')`,
		loan.UsuarioID).Scan(&activos)
	if err != nil {
		return fmt.Errorf("count prestamos activos: %w", err)
	}

	if err := pol.CanCreateLoan(activos, disponible); err != nil {
		return err
	}

	if err := reserveCopy(ctx, tx, loan.LibroID); err != nil {
		return err
	}

	if loan.ID == uuid.Nil {
		loan.ID = uuid.New()
	}
	loan.Estado = domain.LoanStatusActivo
	err = tx.QueryRowContext(ctx,
		`INSERT INTO prestamos (id, usuario_id, libro_id, fecha_prestamo, fecha_devolucion_esperada, estado, observaciones)
		 VALUES ($1, $2, $3, $4, $5, 'activo', $6)
		 RETURNING fecha_prestamo`,
		loan.ID, loan.UsuarioID, loan.LibroID, time.Now(), loan.FechaDevolucionEsperada, loan.Observaciones,
	).Scan(&loan.FechaPrestamo)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			// Foreign key violation: the referenced user does not exist.
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert prestamo: %w", err)
	}

	return tx.Commit()
}

const loanColumns = `p.id, p.usuario_id, p.libro_id, p.fecha_prestamo, p.fecha_devolucion_esperada,
	p.fecha_devolucion_real, p.estado, COALESCE(p.observaciones, ''),
	u.nombre, u.email, l.titulo, l.autor`

const loanJoins = ` FROM prestamos p
	JOIN usuarios u ON p.usuario_id = u.id
	JOIN libros l ON p.libro_id = l.id`

func scanLoan(row interface{ Scan(...any) error }) (*domain.Loan, error) {
	p := &domain.Loan{}
	err := row.Scan(&p.ID, &p.UsuarioID, &p.LibroID, &p.FechaPrestamo, &p.FechaDevolucionEsperada,
		&p.FechaDevolucionReal, &p.Estado, &p.Observaciones,
		&p.UsuarioNombre, &p.UsuarioEmail, &p.LibroTitulo, &p.LibroAutor)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + loanJoins + ` WHERE p.id = $1`
	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select prestamo: %w", err)
	}
	return loan, nil
}

// Return closes the loan and releases its copy in one transaction. The
// conditional UPDATE is the idempotence guard: a second return finds no
// active row and aborts without touching the availability counter.
func (r *loanRepository) Return(ctx context.Context, id uuid.UUID, observaciones string, returnedAt time.Time) (*domain.Loan, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	loan := &domain.Loan{}
	err = tx.QueryRowContext(ctx,
		`UPDATE prestamos
		 SET estado = 'devuelto', fecha_devolucion_real = $2, observaciones = $3
		 WHERE id = $1 AND estado IN ('activo', 'renovado')
		 RETURNING id, usuario_id, libro_id, fecha_prestamo, fecha_devolucion_esperada, fecha_devolucion_real, estado, COALESCE(observaciones, '')`,
		id, returnedAt, observaciones,
	).Scan(&loan.ID, &loan.UsuarioID, &loan.LibroID, &loan.FechaPrestamo,
		&loan.FechaDevolucionEsperada, &loan.FechaDevolucionReal, &loan.Estado, &loan.Observaciones)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMissingTransition(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update prestamo: %w", err)
	}

	if err := releaseCopy(ctx, tx, loan.LibroID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return loan, nil
}

// Renew extends the due date of a loan still in estado activo. The
// state condition doubles as the race guard against a concurrent
// return or renewal; the copy stays reserved either way.
func (r *loanRepository) Renew(ctx context.Context, id uuid.UUID, newDueDate time.Time) (*domain.Loan, error) {
	loan := &domain.Loan{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE prestamos
		 SET estado = 'renovado', fecha_devolucion_esperada = $2
		 WHERE id = $1 AND estado = 'activo'
		 RETURNING id, usuario_id, libro_id, fecha_prestamo, fecha_devolucion_esperada, fecha_devolucion_real, estado, COALESCE(observaciones, '')`,
		id, newDueDate,
	).Scan(&loan.ID, &loan.UsuarioID, &loan.LibroID, &loan.FechaPrestamo,
		&loan.FechaDevolucionEsperada, &loan.FechaDevolucionReal, &loan.Estado, &loan.Observaciones)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.classifyMissingTransition(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("update prestamo: %w", err)
	}
	return loan, nil
}

// classifyMissingTransition distinguishes an absent loan from one in
// the wrong state after a conditional update matched no row.
func (r *loanRepository) classifyMissingTransition(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM prestamos WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("select prestamo: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidState
}

func (r *loanRepository) List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, int64, error) {
	where := ` WHERE 1=1`
	args := []any{}
	argIdx := 1

	switch filter.Estado {
	case "":
	case domain.LoanStatusVencido:
		// Derived classification: active and past due.
		where += " AND p.estado IN ('activo', 'renovado') AND p.fecha_devolucion_esperada < CURRENT_DATE"
	default:
		where += fmt.Sprintf(" AND p.estado = $%d", argIdx)
		args = append(args, filter.Estado)
		argIdx++
	}
	if filter.UsuarioID != nil {
		where += fmt.Sprintf(" AND p.usuario_id = $%d", argIdx)
		args = append(args, *filter.UsuarioID)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM prestamos p` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prestamos: %w", err)
	}

	query := `SELECT ` + loanColumns + loanJoins + where +
		fmt.Sprintf(" ORDER BY p.fecha_prestamo DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select prestamos: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan prestamo: %w", err)
		}
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + loanJoins + `
	          WHERE p.estado IN ('activo', 'renovado') AND p.fecha_devolucion_esperada < $1
	          ORDER BY p.fecha_devolucion_esperada ASC`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("select prestamos vencidos: %w", err)
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prestamo: %w", err)
		}
		loan.Vencido = true
		loans = append(loans, *loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) Stats(ctx context.Context) (*domain.LoanStats, error) {
	stats := &domain.LoanStats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE estado IN ('activo', 'renovado')),
		        COUNT(*) FILTER (WHERE estado IN ('activo', 'renovado') AND fecha_devolucion_esperada < CURRENT_DATE),
		        COUNT(*) FILTER (WHERE estado = 'devuelto')
		 FROM prestamos`,
	).Scan(&stats.Total, &stats.Activos, &stats.Vencidos, &stats.Devueltos)
	if err != nil {
		return nil, fmt.Errorf("select estadísticas: %w", err)
	}
	return stats, nil
}
