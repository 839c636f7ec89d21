package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"biblioteca-backend/internal/domain"
	"biblioteca-backend/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, COALESCE(descripcion, '') FROM categorias ORDER BY nombre ASC`)
	if err != nil {
		return nil, fmt.Errorf("select categorias: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion); err != nil {
			return nil, fmt.Errorf("scan categoria: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}
