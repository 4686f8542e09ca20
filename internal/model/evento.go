package model

import "time"

// TipoEvento distinguishes deliveries from pickups.
type TipoEvento string

const (
	EventoEntrega TipoEvento = "entrega"
	EventoRetiro  TipoEvento = "retiro"
)

// Valido reports whether the event type is recognized.
func (t TipoEvento) Valido() bool {
	return t == EventoEntrega || t == EventoRetiro
}

// Evento is the immutable record of a delivery or pickup.
//
// Rows are append-only; after insertion, only Observaciones may change.
// UsuarioNombre and ClienteNombre are snapshots taken at record time so the
// log stays readable even if the user or client is later renamed or removed.
type Evento struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Tipo          TipoEvento `gorm:"size:16;not null" json:"tipo"`
	Fecha         time.Time  `gorm:"not null;index" json:"fecha"`
	UsuarioID     uint       `gorm:"not null" json:"usuario_id"`
	UsuarioNombre string     `gorm:"size:128;not null" json:"usuario_nombre"`
	FreezerID     uint       `gorm:"not null;index" json:"freezer_id"`
	ClienteID     uint       `gorm:"not null" json:"cliente_id"`
	ClienteNombre string     `gorm:"size:128;not null" json:"cliente_nombre"`
	Observaciones string     `gorm:"size:512" json:"observaciones"`
	CreatedAt     time.Time  `json:"created_at"`

	// Associations
	Freezer *Freezer `gorm:"foreignKey:FreezerID" json:"freezer,omitempty"`
}
