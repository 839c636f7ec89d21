package domain

import "github.com/google/uuid"

// Category is reference data for book classification. Only read
// operations are exposed; catalog curation happens out of band.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Nombre      string    `json:"nombre"`
	Descripcion string    `json:"descripcion,omitempty"`
}
