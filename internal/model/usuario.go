package model

import "time"

// Rol is the role carried by the authenticated identity context.
type Rol string

const (
	RolAdministrador Rol = "administrador"
	RolOperador      Rol = "operador"
)

// Usuario is reference data for the people that act on the system. Credential
// handling and session issuance live outside this service; the identity
// middleware only resolves token claims against these rows.
type Usuario struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nombre    string    `gorm:"size:128;not null" json:"nombre"`
	Email     string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Rol       Rol       `gorm:"size:16;not null" json:"rol"`
	Activo    bool      `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
