package model

import "time"

// EstadoAsignacion represents the state of a scheduled maintenance visit.
type EstadoAsignacion string

const (
	AsignacionPendiente  EstadoAsignacion = "pendiente"
	AsignacionEnCurso    EstadoAsignacion = "en curso"
	AsignacionCompletada EstadoAsignacion = "completada"
	AsignacionCancelada  EstadoAsignacion = "cancelado"
	AsignacionVencida    EstadoAsignacion = "vencida"
)

// NormalizarEstadoAsignacion maps an input spelling to its canonical state.
// The legacy spelling "completado" is accepted as an alias of "completada"
// and is never stored.
func NormalizarEstadoAsignacion(s string) (EstadoAsignacion, bool) {
	switch EstadoAsignacion(s) {
	case AsignacionPendiente, AsignacionEnCurso, AsignacionCompletada,
		AsignacionCancelada, AsignacionVencida:
		return EstadoAsignacion(s), true
	}
	if s == "completado" {
		return AsignacionCompletada, true
	}
	return "", false
}

// TipoMantenimiento classifies planned and performed maintenance work.
type TipoMantenimiento string

const (
	MantenimientoPreventivo TipoMantenimiento = "Preventivo"
	MantenimientoCorrectivo TipoMantenimiento = "Correctivo"
	MantenimientoInspeccion TipoMantenimiento = "Inspeccion"
)

// Valido reports whether the maintenance type is recognized.
func (t TipoMantenimiento) Valido() bool {
	switch t {
	case MantenimientoPreventivo, MantenimientoCorrectivo, MantenimientoInspeccion:
		return true
	}
	return false
}

// AsignacionMantenimiento is a scheduled visit that has not yet produced a
// permanent Mantenimiento record. Completion through the confirm or complete
// paths inserts the record and removes the assignment in the same transaction.
type AsignacionMantenimiento struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	FreezerID       uint              `gorm:"not null;index" json:"freezer_id"`
	UsuarioID       uint              `gorm:"not null;index" json:"usuario_id"`
	FechaCreacion   time.Time         `gorm:"not null" json:"fecha_creacion"`
	FechaProgramada time.Time         `gorm:"not null;index" json:"fecha_programada"`
	Estado          EstadoAsignacion  `gorm:"size:16;not null;default:'pendiente'" json:"estado"`
	TipoPlanificado TipoMantenimiento `gorm:"size:16;not null" json:"tipo_planificado"`
	Observaciones   string            `gorm:"size:512" json:"observaciones"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	// Associations
	Freezer *Freezer `gorm:"foreignKey:FreezerID" json:"freezer,omitempty"`
	Usuario *Usuario `gorm:"foreignKey:UsuarioID" json:"usuario,omitempty"`
}
