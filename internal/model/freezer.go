package model

import "time"

// EstadoFreezer represents the lifecycle state of a leased unit.
type EstadoFreezer string

const (
	EstadoDisponible    EstadoFreezer = "Disponible"
	EstadoAsignado      EstadoFreezer = "Asignado"
	EstadoBaja          EstadoFreezer = "Baja"
	EstadoMantenimiento EstadoFreezer = "Mantenimiento"
)

// Valido reports whether the state is one of the known lifecycle states.
func (e EstadoFreezer) Valido() bool {
	switch e {
	case EstadoDisponible, EstadoAsignado, EstadoBaja, EstadoMantenimiento:
		return true
	}
	return false
}

// TipoFreezer classifies the cabinet format of a unit.
type TipoFreezer string

const (
	TipoHorizontal        TipoFreezer = "horizontal"
	TipoVertical          TipoFreezer = "vertical"
	TipoHorizontalNoFrost TipoFreezer = "horizontal-no-frost"
	TipoVerticalNoFrost   TipoFreezer = "vertical-no-frost"
)

// Valido reports whether the cabinet type is recognized.
func (t TipoFreezer) Valido() bool {
	switch t {
	case TipoHorizontal, TipoVertical, TipoHorizontalNoFrost, TipoVerticalNoFrost:
		return true
	}
	return false
}

// Freezer represents a leased refrigeration unit.
//
// Invariants maintained by the store:
//   - Estado == Asignado exactly when ClienteID is non-nil.
//   - Estado Baja or Mantenimiento requires ClienteID to be nil.
type Freezer struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	NumeroSerie      string        `gorm:"size:64;uniqueIndex;not null" json:"numero_serie"`
	Modelo           string        `gorm:"size:128;not null" json:"modelo"`
	Tipo             TipoFreezer   `gorm:"size:32;not null" json:"tipo"`
	Capacidad        int           `gorm:"not null" json:"capacidad"` // litres
	Marca            string        `gorm:"size:64" json:"marca"`
	FechaAdquisicion time.Time     `json:"fecha_adquisicion"`
	Estado           EstadoFreezer `gorm:"size:32;not null;default:'Disponible'" json:"estado"`
	Imagen           string        `gorm:"size:256" json:"imagen,omitempty"`
	ClienteID        *uint         `gorm:"index" json:"cliente_id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Associations
	Cliente *Cliente `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
}
