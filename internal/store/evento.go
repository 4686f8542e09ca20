package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"freezer-fleet-backend/internal/model"
)

// EventoNuevo carries the request to record a delivery or pickup.
type EventoNuevo struct {
	FreezerID     uint
	ClienteID     uint // required for entrega; ignored for retiro
	Tipo          model.TipoEvento
	Observaciones string
}

// EventoPatch carries an event edit. Observaciones is the only mutable field;
// the others exist so an attempt to change them can be rejected by name.
type EventoPatch struct {
	Observaciones *string
	Tipo          *string
	FreezerID     *uint
	ClienteID     *uint
}

// FiltroEventos holds the list filters for the event log.
type FiltroEventos struct {
	Pagina
	FreezerID uint
	Tipo      string
}

// RegistrarEvento validates the event against the freezer's current state,
// inserts it and applies the state transition in a single transaction. The
// precondition is checked against the state as it is now: an event whose
// precondition only held historically is rejected, never applied
// retroactively.
func (s *gormStore) RegistrarEvento(ctx context.Context, actor Actor, req EventoNuevo) (*model.Evento, error) {
	if !req.Tipo.Valido() {
		return nil, validacion("tipo", "debe ser entrega o retiro")
	}
	if req.Tipo == model.EventoEntrega && req.ClienteID == 0 {
		return nil, validacion("cliente_id", "requerido para una entrega")
	}

	var evento model.Evento
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var freezer model.Freezer
		if err := tx.First(&freezer, req.FreezerID).Error; err != nil {
			return traducirNoEncontrado(err)
		}

		var cliente model.Cliente
		switch req.Tipo {
		case model.EventoEntrega:
			if freezer.Estado != model.EstadoDisponible {
				return precondicion("una entrega requiere un freezer %s; el freezer %s esta %s",
					model.EstadoDisponible, freezer.NumeroSerie, freezer.Estado)
			}
			if err := tx.First(&cliente, req.ClienteID).Error; err != nil {
				return traducirNoEncontrado(err)
			}
		case model.EventoRetiro:
			if freezer.Estado != model.EstadoAsignado || freezer.ClienteID == nil {
				return precondicion("un retiro requiere un freezer %s; el freezer %s esta %s",
					model.EstadoAsignado, freezer.NumeroSerie, freezer.Estado)
			}
			if err := tx.First(&cliente, *freezer.ClienteID).Error; err != nil {
				return traducirNoEncontrado(err)
			}
		}

		evento = model.Evento{
			Tipo:          req.Tipo,
			Fecha:         ahora(),
			UsuarioID:     actor.ID,
			UsuarioNombre: actor.Nombre,
			FreezerID:     freezer.ID,
			ClienteID:     cliente.ID,
			ClienteNombre: cliente.Nombre, // snapshot at record time
			Observaciones: req.Observaciones,
		}
		if err := tx.Create(&evento).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if req.Tipo == model.EventoEntrega {
			updates["estado"] = model.EstadoAsignado
			updates["cliente_id"] = cliente.ID
		} else {
			updates["estado"] = model.EstadoDisponible
			updates["cliente_id"] = nil
		}
		return tx.Model(&model.Freezer{}).Where("id = ?", freezer.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	s.rec.Registrar(ctx, actor.ID, actor.Nombre,
		fmt.Sprintf("Evento %s: freezer %d, cliente %s", evento.Tipo, evento.FreezerID, evento.ClienteNombre))
	// Operators notify every administrator; administrators do not self-notify.
	if !actor.EsAdministrador() {
		s.rec.NotificarAdministradores(ctx, "Nuevo evento",
			fmt.Sprintf("%s registro un %s del freezer %d para %s", actor.Nombre, evento.Tipo, evento.FreezerID, evento.ClienteNombre),
			"evento", evento.ID, "evento")
	}
	return &evento, nil
}

// EditarEvento updates an event's observations. Any attempt to change the
// event's type, freezer or client is rejected naming the immutable field.
func (s *gormStore) EditarEvento(ctx context.Context, actor Actor, id uint, patch EventoPatch) (*model.Evento, error) {
	switch {
	case patch.Tipo != nil:
		return nil, validacion("tipo", "inmutable una vez registrado el evento")
	case patch.FreezerID != nil:
		return nil, validacion("freezer_id", "inmutable una vez registrado el evento")
	case patch.ClienteID != nil:
		return nil, validacion("cliente_id", "inmutable una vez registrado el evento")
	case patch.Observaciones == nil:
		return nil, ErrSinCambios
	}

	var evento model.Evento
	if err := s.db.WithContext(ctx).First(&evento, id).Error; err != nil {
		return nil, traducirNoEncontrado(err)
	}
	if *patch.Observaciones == evento.Observaciones {
		return nil, ErrSinCambios
	}

	if err := s.db.WithContext(ctx).Model(&model.Evento{}).Where("id = ?", id).
		Update("observaciones", *patch.Observaciones).Error; err != nil {
		return nil, err
	}
	evento.Observaciones = *patch.Observaciones

	s.rec.Registrar(ctx, actor.ID, actor.Nombre, fmt.Sprintf("Edicion de observaciones del evento %d", id))
	return &evento, nil
}

// ListarEventos returns events ordered by date, newest first.
func (s *gormStore) ListarEventos(ctx context.Context, filtro FiltroEventos) ([]model.Evento, int64, error) {
	p := filtro.Pagina.Normalizada()

	q := s.db.WithContext(ctx).Model(&model.Evento{})
	if filtro.FreezerID != 0 {
		q = q.Where("freezer_id = ?", filtro.FreezerID)
	}
	if filtro.Tipo != "" {
		q = q.Where("tipo = ?", filtro.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var eventos []model.Evento
	if err := q.Order("fecha DESC, id DESC").
		Offset(p.offset()).Limit(p.PageSize).
		Find(&eventos).Error; err != nil {
		return nil, 0, err
	}
	return eventos, total, nil
}
