package model

import "time"

// Mantenimiento is the permanent record of maintenance work performed on a
// unit. It is created exactly once per completed assignment, or directly by
// an administrator, and is never deleted by the core. Only Descripcion, Tipo,
// Fecha and Observaciones may change, through an explicit edit.
type Mantenimiento struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	FreezerID     uint              `gorm:"not null;index" json:"freezer_id"`
	UsuarioID     uint              `gorm:"not null;index" json:"usuario_id"`
	Fecha         time.Time         `gorm:"not null" json:"fecha"`
	Descripcion   string            `gorm:"size:512;not null" json:"descripcion"`
	Tipo          TipoMantenimiento `gorm:"size:16;not null" json:"tipo"`
	Observaciones string            `gorm:"size:512" json:"observaciones"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Associations
	Freezer *Freezer `gorm:"foreignKey:FreezerID" json:"freezer,omitempty"`
	Usuario *Usuario `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
}
