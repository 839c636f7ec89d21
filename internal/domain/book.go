package domain

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID                  uuid.UUID  `json:"id"`
	Titulo              string     `json:"titulo"`
	Autor               string     `json:"autor"`
	ISBN                string     `json:"isbn,omitempty"`
	Editorial           string     `json:"editorial,omitempty"`
	CategoriaID         *uuid.UUID `json:"categoria_id,omitempty"`
	CategoriaNombre     string     `json:"categoria_nombre,omitempty"` // Populated by list/get joins
	AnioPublicacion     int32      `json:"anio_publicacion,omitempty"`
	CantidadTotal       int32      `json:"cantidad_total"`
	CantidadDisponible  int32      `json:"cantidad_disponible"`
	Ubicacion           string     `json:"ubicacion,omitempty"`
	Descripcion         string     `json:"descripcion,omitempty"`
	Activo              bool       `json:"activo"`
	FechaRegistro       time.Time  `json:"fecha_registro"`
}

// BookFilter narrows List queries. Search matches titulo, autor or ISBN.
type BookFilter struct {
	Search      string
	CategoriaID *uuid.UUID
	Page        int32
	Limit       int32
}
