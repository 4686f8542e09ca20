package store

import (
	"context"
	"fmt"
	"time"

	"freezer-fleet-backend/internal/model"
)

// MantenimientoNuevo carries a direct administrator registration, the path
// that does not go through an assignment.
type MantenimientoNuevo struct {
	FreezerID     uint
	UsuarioID     uint
	Fecha         time.Time
	Descripcion   string
	Tipo          model.TipoMantenimiento
	Observaciones string
}

// MantenimientoPatch carries the only fields an explicit edit may change.
type MantenimientoPatch struct {
	Descripcion   *string
	Tipo          *model.TipoMantenimiento
	Fecha         *time.Time
	Observaciones *string
}

// FiltroMantenimientos holds the list filters for permanent records.
type FiltroMantenimientos struct {
	Pagina
	FreezerID uint
	UsuarioID uint
	Tipo      string
}

// RegistrarMantenimiento inserts a permanent record directly. Administrator
// only.
func (s *gormStore) RegistrarMantenimiento(ctx context.Context, actor Actor, req MantenimientoNuevo) (*model.Mantenimiento, error) {
	if !actor.EsAdministrador() {
		return nil, ErrProhibido
	}
	if req.Descripcion == "" {
		return nil, validacion("descripcion", "requerida")
	}
	if !req.Tipo.Valido() {
		return nil, validacion("tipo", "valor desconocido")
	}
	if req.Fecha.IsZero() {
		req.Fecha = ahora()
	}

	var freezer model.Freezer
	if err := s.db.WithContext(ctx).First(&freezer, req.FreezerID).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	var usuario model.Usuario
	if err := s.db.WithContext(ctx).First(&usuario, req.UsuarioID).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}

	registro := model.Mantenimiento{
		FreezerID:     req.FreezerID,
		UsuarioID:     req.UsuarioID,
		Fecha:         req.Fecha,
		Descripcion:   req.Descripcion,
		Tipo:          req.Tipo,
		Observaciones: req.Observaciones,
	}
	if err := s.db.WithContext(ctx).Create(&registro).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Registro directo de mantenimiento %s del freezer %s", req.Tipo, freezer.NumeroSerie))
	return &registro, nil
}

// EditarMantenimiento updates the editable fields of a permanent record.
func (s *gormStore) EditarMantenimiento(ctx context.Context, actor Actor, id uint, patch MantenimientoPatch) (*model.Mantenimiento, error) {
	var registro model.Mantenimiento
	if err := s.db.WithContext(ctx).First(&registro, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}

	updates := map[string]any{}
	if patch.Descripcion != nil && *patch.Descripcion != registro.Descripcion {
		if *patch.Descripcion == "" {
			return nil, validacion("descripcion", "no puede quedar vacia")
		}
		updates["descripcion"] = *patch.Descripcion
	}
	if patch.Tipo != nil && *patch.Tipo != registro.Tipo {
		if !patch.Tipo.Valido() {
			return nil, validacion("tipo", "valor desconocido")
		}
		updates["tipo"] = *patch.Tipo
	}
	if patch.Fecha != nil && !patch.Fecha.Equal(registro.Fecha) {
		updates["fecha"] = *patch.Fecha
	}
	if patch.Observaciones != nil && *patch.Observaciones != registro.Observaciones {
		updates["observaciones"] = *patch.Observaciones
	}
	if len(updates) == 0 {
		return nil, ErrSinCambios
	}

	if err := s.db.WithContext(ctx).Model(&model.Mantenimiento{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Edicion de mantenimiento %d", id))
	if err := s.db.WithContext(ctx).First(&registro, id).Error; err != nil {
		return nil, err
	}
	return &registro, nil
}

// ListarMantenimientos returns a filtered page of permanent records.
func (s *gormStore) ListarMantenimientos(ctx context.Context, filtro FiltroMantenimientos) ([]model.Mantenimiento, int64, error) {
	p := filtro.Pagina.Normalizada()

	q := s.db.WithContext(ctx).Model(&model.Mantenimiento{})
	if filtro.FreezerID != 0 {
		q = q.Where("freezer_id = ?", filtro.FreezerID)
	}
	if filtro.UsuarioID != 0 {
		q = q.Where("usuario_id = ?", filtro.UsuarioID)
	}
	if filtro.Tipo != "" {
		q = q.Where("tipo = ?", filtro.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var registros []model.Mantenimiento
	if err := q.Preload("Freezer").Preload("Usuario").
		Order("fecha DESC").
		Offset(p.offset()).Limit(p.PageSize).
		Find(&registros).Error; err != nil {
		return nil, 0, err
	}
	return registros, total, nil
}
