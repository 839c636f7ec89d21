package domain

import (
	"time"

	"github.com/google/uuid"
)

type LoanStatus string

const (
	LoanStatusActivo   LoanStatus = "activo"
	LoanStatusDevuelto LoanStatus = "devuelto"
	LoanStatusRenovado LoanStatus = "renovado"

	// LoanStatusVencido is a derived classification, never stored: an
	// active loan whose expected return date has passed. It is accepted
	// as a list filter and reported on reads.
	LoanStatusVencido LoanStatus = "vencido"
)

type Loan struct {
	ID                      uuid.UUID  `json:"id"`
	UsuarioID               uuid.UUID  `json:"usuario_id"`
	LibroID                 uuid.UUID  `json:"libro_id"`
	FechaPrestamo           time.Time  `json:"fecha_prestamo"`
	FechaDevolucionEsperada time.Time  `json:"fecha_devolucion_esperada"`
	FechaDevolucionReal     *time.Time `json:"fecha_devolucion_real,omitempty"`
	Estado                  LoanStatus `json:"estado"`
	Observaciones           string     `json:"observaciones,omitempty"`
	Vencido                 bool       `json:"vencido"`

	// Display fields populated by list/get joins.
	UsuarioNombre string `json:"usuario_nombre,omitempty"`
	UsuarioEmail  string `json:"usuario_email,omitempty"`
	LibroTitulo   string `json:"libro_titulo,omitempty"`
	LibroAutor    string `json:"libro_autor,omitempty"`
}

// IsActive reports whether the loan still holds a copy of the book.
func (l *Loan) IsActive() bool {
	return l.Estado == LoanStatusActivo || l.Estado == LoanStatusRenovado
}

// IsOverdue classifies the loan against now. Overdue loans stay in
// their stored state; the classification only exists at read time.
func (l *Loan) IsOverdue(now time.Time) bool {
	if !l.IsActive() {
		return false
	}
	due := l.FechaDevolucionEsperada
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return due.Before(today)
}

// LoanFilter narrows List queries. Estado may be LoanStatusVencido,
// which selects active loans past their expected return date.
type LoanFilter struct {
	Estado    LoanStatus
	UsuarioID *uuid.UUID
	Page      int32
	Limit     int32
}

// LoanStats summarizes the loan ledger for the dashboard.
type LoanStats struct {
	Total     int64 `json:"total"`
	Activos   int64 `json:"activos"`
	Vencidos  int64 `json:"vencidos"`
	Devueltos int64 `json:"devueltos"`
}
