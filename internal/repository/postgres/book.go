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
	"biblioteca-backend/internal/repository"
)

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (class 23505, used for the ISBN index).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Activo = true
	b.CantidadDisponible = b.CantidadTotal
	query := `INSERT INTO libros (id, titulo, autor, isbn, editorial, categoria_id, anio_publicacion,
	            cantidad_total, cantidad_disponible, ubicacion, descripcion, activo, fecha_registro)
	          VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $8, $9, $10, true, $11)
	          RETURNING fecha_registro`
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.Titulo, b.Autor, b.ISBN, b.Editorial, b.CategoriaID, b.AnioPublicacion,
		b.CantidadTotal, b.Ubicacion, b.Descripcion, time.Now(),
	).Scan(&b.FechaRegistro)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateISBN
		}
		return fmt.Errorf("insert libro: %w", err)
	}
	return nil
}

const bookColumns = `l.id, l.titulo, l.autor, COALESCE(l.isbn, ''), COALESCE(l.editorial, ''),
	l.categoria_id, COALESCE(c.nombre, ''), COALESCE(l.anio_publicacion, 0),
	l.cantidad_total, l.cantidad_disponible, COALESCE(l.ubicacion, ''), COALESCE(l.descripcion, ''),
	l.activo, l.fecha_registro`

func scanBook(row interface{ Scan(...any) error }) (*domain.Book, error) {
	b := &domain.Book{}
	err := row.Scan(&b.ID, &b.Titulo, &b.Autor, &b.ISBN, &b.Editorial,
		&b.CategoriaID, &b.CategoriaNombre, &b.AnioPublicacion,
		&b.CantidadTotal, &b.CantidadDisponible, &b.Ubicacion, &b.Descripcion,
		&b.Activo, &b.FechaRegistro)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + `
	          FROM libros l LEFT JOIN categorias c ON l.categoria_id = c.id
	          WHERE l.id = $1 AND l.activo = true`
	b, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select libro: %w", err)
	}
	return b, nil
}

// Update rewrites the catalog fields. A change of cantidad_total moves
// cantidad_disponible by the same delta so the loaned-copy count stays
// intact; shrinking total below the loaned count is rejected.
func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE libros SET
	            titulo = $1, autor = $2, isbn = NULLIF($3, ''), editorial = $4, categoria_id = $5,
	            anio_publicacion = $6,
	            cantidad_disponible = cantidad_disponible + ($7 - cantidad_total),
	            cantidad_total = $7,
	            ubicacion = $8, descripcion = $9
	          WHERE id = $10 AND activo = true
	            AND cantidad_disponible + ($7 - cantidad_total) >= 0`
	result, err := r.db.ExecContext(ctx, query,
		b.Titulo, b.Autor, b.ISBN, b.Editorial, b.CategoriaID, b.AnioPublicacion,
		b.CantidadTotal, b.Ubicacion, b.Descripcion, b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateISBN
		}
		return fmt.Errorf("update libro: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update libro: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM libros WHERE id = $1 AND activo = true)`, b.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("update libro: %w", err)
		}
		if exists {
			return fmt.Errorf("%w: cantidad_total menor que las copias prestadas", domain.ErrValidation)
		}
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete deactivates the book inside a transaction. The UPDATE
// takes the row lock first, so a concurrent loan creation either
// commits before the active-loan count runs or fails its activo check.
func (r *bookRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE libros SET activo = false WHERE id = $1 AND activo = true`, id)
	if err != nil {
		return fmt.Errorf("deactivate libro: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate libro: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	var activos int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM prestamos WHERE libro_id = $1 AND estado IN ('activo', 'renovado')`,
		id).Scan(&activos)
	if err != nil {
		return fmt.Errorf("count prestamos activos: %w", err)
	}
	if activos > 0 {
		return domain.ErrHasActiveLoans
	}

	return tx.Commit()
}

func (r *bookRepository) List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, int64, error) {
	where := ` WHERE l.activo = true`
	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (l.titulo ILIKE $%d OR l.autor ILIKE $%d OR l.isbn ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.CategoriaID != nil {
		where += fmt.Sprintf(" AND l.categoria_id = $%d", argIdx)
		args = append(args, *filter.CategoriaID)
		argIdx++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM libros l` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count libros: %w", err)
	}

	query := `SELECT ` + bookColumns + `
	          FROM libros l LEFT JOIN categorias c ON l.categoria_id = c.id` + where +
		fmt.Sprintf(" ORDER BY l.fecha_registro DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select libros: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan libro: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// reserveCopy decrements cantidad_disponible by one in the same atomic
// statement as the availability check. Zero rows affected means either
// the book is gone/inactive or no copy is left.
func reserveCopy(ctx context.Context, q querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx,
		`UPDATE libros SET cantidad_disponible = cantidad_disponible - 1
		 WHERE id = $1 AND activo = true AND cantidad_disponible > 0`, id)
	if err != nil {
		return fmt.Errorf("reserve copy: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve copy: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM libros WHERE id = $1 AND activo = true)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("reserve copy: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrBookUnavailable
	}
	return nil
}

// releaseCopy increments cantidad_disponible by one, refusing to exceed
// cantidad_total. Exceeding would mean a double release and is surfaced
// as an integrity error, not clamped.
func releaseCopy(ctx context.Context, q querier, id uuid.UUID) error {
	result, err := q.ExecContext(ctx,
		`UPDATE libros SET cantidad_disponible = cantidad_disponible + 1
		 WHERE id = $1 AND cantidad_disponible < cantidad_total`, id)
	if err != nil {
		return fmt.Errorf("release copy: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("release copy: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := q.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM libros WHERE id = $1)`, id,
		).Scan(&exists); err != nil {
			return fmt.Errorf("release copy: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrCopiesExceedTotal
	}
	return nil
}

func (r *bookRepository) ReserveCopy(ctx context.Context, id uuid.UUID) error {
	return reserveCopy(ctx, r.db, id)
}

func (r *bookRepository) ReleaseCopy(ctx context.Context, id uuid.UUID) error {
	return releaseCopy(ctx, r.db, id)
}
