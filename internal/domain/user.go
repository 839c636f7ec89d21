package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdministrador UserRole = "administrador"
	UserRoleUsuario       UserRole = "usuario"
)

type User struct {
	ID            uuid.UUID `json:"id"`
	Nombre        string    `json:"nombre"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	Rol           UserRole  `json:"rol"`
	Activo        bool      `json:"activo"`
	FechaRegistro time.Time `json:"fecha_registro"`
}

func (u *User) IsAdmin() bool {
	return u.Rol == UserRoleAdministrador
}
