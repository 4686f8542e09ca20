package model

import "time"

// Notificacion is a per-user inbox message written by the notification sink.
type Notificacion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UsuarioID uint      `gorm:"not null;index" json:"usuario_id"`
	Titulo    string    `gorm:"size:128;not null" json:"titulo"`
	Mensaje   string    `gorm:"size:512;not null" json:"mensaje"`
	Tipo      string    `gorm:"size:32;not null" json:"tipo"`
	RefID     uint      `json:"ref_id"`
	RefTipo   string    `gorm:"size:32" json:"ref_tipo"`
	Leida     bool      `gorm:"not null;default:false" json:"leida"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistroActividad is an append-only audit entry. UsuarioNombre is a
// snapshot so entries remain attributable after user changes.
type RegistroActividad struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UsuarioID     uint      `gorm:"not null;index" json:"usuario_id"`
	UsuarioNombre string    `gorm:"size:128;not null" json:"usuario_nombre"`
	Fecha         time.Time `gorm:"not null;index" json:"fecha"`
	Detalle       string    `gorm:"size:512;not null" json:"detalle"`
}
