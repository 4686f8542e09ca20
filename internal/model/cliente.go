package model

import "time"

// Cliente represents a business location that holds leased units.
type Cliente struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Nombre       string    `gorm:"size:128;not null" json:"nombre"`
	Cuit         string    `gorm:"size:32;uniqueIndex" json:"cuit"`
	Direccion    string    `gorm:"size:256" json:"direccion"`
	Telefono     string    `gorm:"size:32" json:"telefono"`
	Email        string    `gorm:"size:128" json:"email"`
	Zona         string    `gorm:"size:64" json:"zona"`
	Departamento string    `gorm:"size:64" json:"departamento"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Freezers []Freezer `gorm:"foreignKey:ClienteID" json:"freezers,omitempty"`
}
