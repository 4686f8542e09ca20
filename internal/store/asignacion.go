package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"freezer-fleet-backend/internal/model"
)

// AsignacionNueva carries the request to schedule a maintenance visit.
type AsignacionNueva struct {
	UsuarioID       uint
	FreezerID       uint
	FechaProgramada time.Time
	Tipo            model.TipoMantenimiento
	Observaciones   string
}

// CompletarReq carries the operator-supplied result of a completed visit.
type CompletarReq struct {
	Descripcion   string
	TipoRealizado model.TipoMantenimiento
	Observaciones string
}

// FiltroAsignaciones holds the list filters for the assignment workflow.
type FiltroAsignaciones struct {
	Pagina
	UsuarioID uint
	FreezerID uint
	Estado    string
}

// CrearAsignacion schedules a visit. Administrator only; the assignee must be
// an active operator and the target freezer must exist.
func (s *gormStore) CrearAsignacion(ctx context.Context, actor Actor, req AsignacionNueva) (*model.AsignacionMantenimiento, error) {
	if !actor.EsAdministrador() {
		return nil, ErrProhibido
	}
	if req.UsuarioID == 0 {
		return nil, validacion("usuario_id", "requerido")
	}
	if req.FreezerID == 0 {
		return nil, validacion("freezer_id", "requerido")
	}
	if req.FechaProgramada.IsZero() {
		return nil, validacion("fecha_programada", "requerida")
	}
	if !req.Tipo.Valido() {
		return nil, validacion("tipo", "valor desconocido")
	}

	var freezer model.Freezer
	if err := s.db.WithContext(ctx).First(&freezer, req.FreezerID).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	var usuario model.Usuario
	if err := s.db.WithContext(ctx).First(&usuario, req.UsuarioID).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	if usuario.Rol != model.RolOperador {
		return nil, validacion("usuario_id", "el asignado debe ser un operador")
	}

	asignacion := model.AsignacionMantenimiento{
		FreezerID:       req.FreezerID,
		UsuarioID:       req.UsuarioID,
		FechaCreacion:   ahora(),
		FechaProgramada: req.FechaProgramada,
		Estado:          model.AsignacionPendiente,
		TipoPlanificado: req.Tipo,
		Observaciones:   req.Observaciones,
	}
	if err := s.db.WithContext(ctx).Create(&asignacion).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Asignacion de mantenimiento %s del freezer %s a %s", req.Tipo, freezer.NumeroSerie, usuario.Nombre))
	s.rec.Notificar(ctx, usuario.ID, "Mantenimiento asignado",
		fmt.Sprintf("Se te asigno un mantenimiento %s del freezer %s para el %s",
			req.Tipo, freezer.NumeroSerie, req.FechaProgramada.Format("2006-01-02")),
		"asignacion", asignacion.ID, "asignacion")
	return &asignacion, nil
}

// ConfirmarAsignacion is the bare-confirm completion path: assignee only, no
// extra details. The resulting record carries type Correctivo and the
// assignment's observations. Insertion of the record and removal of the
// assignment commit together; partial application is impossible.
func (s *gormStore) ConfirmarAsignacion(ctx context.Context, actor Actor, id uint) (*model.Mantenimiento, error) {
	var asignacion model.AsignacionMantenimiento
	if err := s.db.WithContext(ctx).First(&asignacion, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	if asignacion.UsuarioID != actor.ID {
		return nil, fmt.Errorf("solo el operador asignado puede confirmar la asignacion: %w", ErrProhibido)
	}
	if asignacion.Estado != model.AsignacionPendiente {
		return nil, precondicion("la asignacion %d esta %s; solo una asignacion %s puede confirmarse",
			id, asignacion.Estado, model.AsignacionPendiente)
	}

	registro := model.Mantenimiento{
		FreezerID:     asignacion.FreezerID,
		UsuarioID:     asignacion.UsuarioID,
		Fecha:         ahora(),
		Descripcion:   fmt.Sprintf("Mantenimiento confirmado por el operador (planificado %s)", asignacion.TipoPlanificado),
		Tipo:          model.MantenimientoCorrectivo,
		Observaciones: asignacion.Observaciones,
	}
	if err := s.completar(ctx, id, &registro); err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Confirmacion de asignacion %d: mantenimiento %d registrado", id, registro.ID))
	return &registro, nil
}

// CompletarAsignacion is the detailed completion path: the operator supplies
// the description and the type actually performed, which may differ from the
// planned one.
func (s *gormStore) CompletarAsignacion(ctx context.Context, actor Actor, id uint, req CompletarReq) (*model.Mantenimiento, error) {
	if req.Descripcion == "" {
		return nil, validacion("descripcion", "requerida")
	}
	if !req.TipoRealizado.Valido() {
		return nil, validacion("tipo_realizado", "valor desconocido")
	}

	var asignacion model.AsignacionMantenimiento
	if err := s.db.WithContext(ctx).First(&asignacion, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	if asignacion.UsuarioID != actor.ID {
		return nil, fmt.Errorf("solo el operador asignado puede completar la asignacion: %w", ErrProhibido)
	}
	if asignacion.Estado != model.AsignacionPendiente {
		return nil, precondicion("la asignacion %d esta %s; solo una asignacion %s puede completarse",
			id, asignacion.Estado, model.AsignacionPendiente)
	}

	registro := model.Mantenimiento{
		FreezerID:     asignacion.FreezerID,
		UsuarioID:     actor.ID,
		Fecha:         ahora(),
		Descripcion:   req.Descripcion,
		Tipo:          req.TipoRealizado,
		Observaciones: req.Observaciones,
	}
	if err := s.completar(ctx, id, &registro); err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Asignacion %d completada: mantenimiento %s registrado", id, registro.Tipo))
	return &registro, nil
}

// completar atomically inserts the permanent record and removes the pending
// assignment. The delete is guarded on estado = pendiente and its row count
// checked, so of two concurrent callers at most one commits a record; the
// loser gets ErrNoEncontrado.
func (s *gormStore) completar(ctx context.Context, id uint, registro *model.Mantenimiento) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND estado = ?", id, model.AsignacionPendiente).
			Delete(&model.AsignacionMantenimiento{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoEncontrado
		}
		return tx.Create(registro).Error
	})
}

// CambiarEstadoAsignacion forces a state change. It never produces a
// Mantenimiento record; only the confirm/complete paths do.
func (s *gormStore) CambiarEstadoAsignacion(ctx context.Context, actor Actor, id uint, nuevoEstado string) (*model.AsignacionMantenimiento, error) {
	estado, ok := model.NormalizarEstadoAsignacion(nuevoEstado)
	if !ok {
		return nil, validacion("estado", fmt.Sprintf("valor desconocido %q", nuevoEstado))
	}

	var asignacion model.AsignacionMantenimiento
	if err := s.db.WithContext(ctx).First(&asignacion, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	if !actor.EsAdministrador() && asignacion.UsuarioID != actor.ID {
		return nil, ErrProhibido
	}
	if asignacion.Estado == estado {
		return nil, ErrSinCambios
	}

	if err := s.db.WithContext(ctx).Model(&model.AsignacionMantenimiento{}).
		Where("id = ?", id).Update("estado", estado).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Asignacion %d: estado %s -> %s", id, asignacion.Estado, estado))
	asignacion.Estado = estado
	return &asignacion, nil
}

// EliminarAsignacion removes an assignment without creating a record.
// Administrator only.
func (s *gormStore) EliminarAsignacion(ctx context.Context, actor Actor, id uint) error {
	if !actor.EsAdministrador() {
		return ErrProhibido
	}
	res := s.db.WithContext(ctx).Delete(&model.AsignacionMantenimiento{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNoEncontrado
	}
	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Eliminacion de asignacion %d", id))
	return nil
}

// ListarAsignaciones returns a filtered page of assignments.
func (s *gormStore) ListarAsignaciones(ctx context.Context, filtro FiltroAsignaciones) ([]model.AsignacionMantenimiento, int64, error) {
	p := filtro.Pagina.Normalizada()

	q := s.db.WithContext(ctx).Model(&model.AsignacionMantenimiento{})
	if filtro.UsuarioID != 0 {
		q = q.Where("usuario_id = ?", filtro.UsuarioID)
	}
	if filtro.FreezerID != 0 {
		q = q.Where("freezer_id = ?", filtro.FreezerID)
	}
	if filtro.Estado != "" {
		q = q.Where("estado = ?", filtro.Estado)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var asignaciones []model.AsignacionMantenimiento
	if err := q.Preload("Freezer").Preload("Usuario").
		Order("fecha_programada").
		Offset(p.offset()).Limit(p.PageSize).
		Find(&asignaciones).Error; err != nil {
		return nil, 0, err
	}
	return asignaciones, total, nil
}

// AsignacionesPendientes returns every pending assignment with its freezer
// and assignee preloaded, for the reminder sweep.
func (s *gormStore) AsignacionesPendientes(ctx context.Context) ([]model.AsignacionMantenimiento, error) {
	var pendientes []model.AsignacionMantenimiento
	if err := s.db.WithContext(ctx).
		Preload("Freezer").Preload("Usuario").
		Where("estado = ?", model.AsignacionPendiente).
		Find(&pendientes).Error; err != nil {
		return nil, err
	}
	return pendientes, nil
}

// MarcarVencida transitions a still-pending assignment to vencida. The update
// is guarded on the pending state so a concurrent completion wins cleanly;
// the boolean reports whether the transition happened.
func (s *gormStore) MarcarVencida(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.AsignacionMantenimiento{}).
		Where("id = ? AND estado = ?", id, model.AsignacionPendiente).
		Update("estado", model.AsignacionVencida)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
