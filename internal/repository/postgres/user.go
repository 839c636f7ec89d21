package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Activo = true
	query := `INSERT INTO usuarios (id, nombre, email, password_hash, rol, activo, fecha_registro)
	          VALUES ($1, $2, $3, $4, $5, true, $6)
	          RETURNING fecha_registro`
	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.Nombre, u.Email, u.PasswordHash, u.Rol, time.Now(),
	).Scan(&u.FechaRegistro)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: el email ya está registrado", domain.ErrValidation)
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nombre, email, password_hash, rol, activo, fecha_registro
		 FROM usuarios WHERE id = $1 AND activo = true`, id,
	).Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Rol, &u.Activo, &u.FechaRegistro)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select usuario: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nombre, email, password_hash, rol, activo, fecha_registro
		 FROM usuarios WHERE email = $1 AND activo = true`, email,
	).Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Rol, &u.Activo, &u.FechaRegistro)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select usuario: %w", err)
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, page, limit int32) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usuarios WHERE activo = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count usuarios: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, email, password_hash, rol, activo, fecha_registro
		 FROM usuarios WHERE activo = true
		 ORDER BY nombre ASC LIMIT $1 OFFSET $2`, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("select usuarios: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Rol, &u.Activo, &u.FechaRegistro); err != nil {
			return nil, 0, fmt.Errorf("scan usuario: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
