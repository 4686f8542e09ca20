// Package bitacora implements the audit-log and notification-inbox sinks.
// Every write is best-effort: a failed sink write is logged and swallowed so
// it can never fail or roll back the mutation it decorates.
package bitacora

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"freezer-fleet-backend/internal/model"
)

// Bitacora writes audit entries and inbox notifications.
type Bitacora struct {
	db *gorm.DB
}

// New creates a sink over the given database.
func New(db *gorm.DB) *Bitacora {
	return &Bitacora{db: db}
}

// Registrar appends an audit entry.
func (b *Bitacora) Registrar(ctx context.Context, usuarioID uint, usuarioNombre, detalle string) {
	entrada := model.RegistroActividad{
		UsuarioID:     usuarioID,
		UsuarioNombre: usuarioNombre,
		Fecha:         time.Now().UTC(),
		Detalle:       detalle,
	}
	if err := b.db.WithContext(ctx).Create(&entrada).Error; err != nil {
		log.Printf("Warning: could not write audit entry %q: %v", detalle, err)
	}
}

// Notificar inserts an inbox message for a single user.
func (b *Bitacora) Notificar(ctx context.Context, usuarioID uint, titulo, mensaje, tipo string, refID uint, refTipo string) {
	n := model.Notificacion{
		UsuarioID: usuarioID,
		Titulo:    titulo,
		Mensaje:   mensaje,
		Tipo:      tipo,
		RefID:     refID,
		RefTipo:   refTipo,
	}
	if err := b.db.WithContext(ctx).Create(&n).Error; err != nil {
		log.Printf("Warning: could not notify user %d (%s): %v", usuarioID, titulo, err)
	}
}

// NotificarAdministradores fans a message out to every active administrator.
func (b *Bitacora) NotificarAdministradores(ctx context.Context, titulo, mensaje, tipo string, refID uint, refTipo string) {
	var admins []model.Usuario
	if err := b.db.WithContext(ctx).
		Where("rol = ? AND activo = ?", model.RolAdministrador, true).
		Find(&admins).Error; err != nil {
		log.Printf("Warning: could not fetch administrators for notification %q: %v", titulo, err)
		return
	}
	for _, admin := range admins {
		b.Notificar(ctx, admin.ID, titulo, mensaje, tipo, refID, refTipo)
	}
}
