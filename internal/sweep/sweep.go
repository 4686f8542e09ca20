// Package sweep implements the periodic reminder job over pending
// maintenance assignments. It shares no memory with the request handlers;
// the persisted assignment rows are the only coordination point.
package sweep

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"freezer-fleet-backend/config"
	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/notification"
	"freezer-fleet-backend/internal/store"
)

// Notificador is the subset of the notification sink the sweep writes to.
type Notificador interface {
	Notificar(ctx context.Context, usuarioID uint, titulo, mensaje, tipo string, refID uint, refTipo string)
}

// Service runs the reminder sweep on a fixed interval.
type Service struct {
	cfg        *config.Config
	store      store.Store
	sink       Notificador
	workerPool *notification.WorkerPool
}

// NewService creates a sweep service. The worker pool delivers the
// external-channel reminders; the sink writes the inbox notifications.
func NewService(cfg *config.Config, st store.Store, sink Notificador, wp *notification.WorkerPool) *Service {
	return &Service{cfg: cfg, store: st, sink: sink, workerPool: wp}
}

// Run starts the sweep loop. The first cycle runs immediately.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweep.Enabled {
		log.Println("Reminder sweep is disabled. Not starting.")
		return
	}
	log.Println("Starting reminder sweep...")

	s.workerPool.Start(ctx)

	s.SweepOnce(ctx, time.Now().UTC())

	timer := time.NewTimer(s.cfg.Sweep.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder sweep shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx, time.Now().UTC())
			timer.Reset(s.cfg.Sweep.Interval)
		}
	}
}

// SweepOnce performs a single sweep cycle: overdue pending assignments are
// moved to vencida, and assignments inside the anticipation window get one
// inbox notification plus one push reminder each. The sweep keeps no
// "already reminded" state; re-running inside the same window re-sends,
// which is the intended at-least-once behavior.
func (s *Service) SweepOnce(ctx context.Context, now time.Time) {
	log.Println("Executing reminder sweep cycle...")

	pendientes, err := s.store.AsignacionesPendientes(ctx)
	if err != nil {
		log.Printf("Error fetching pending assignments: %v", err)
		return
	}

	recordadas, vencidas := 0, 0
	for _, a := range pendientes {
		dias := diasRestantes(now, a.FechaProgramada)

		if dias < 0 {
			s.marcarVencida(ctx, a)
			vencidas++
			continue
		}
		if dias > s.cfg.Sweep.AnticipationDays {
			continue
		}

		titulo := "Mantenimiento programado"
		var cuerpo string
		if dias == 0 {
			cuerpo = fmt.Sprintf("El mantenimiento %s del freezer %s vence hoy",
				a.TipoPlanificado, numeroSerie(a))
		} else {
			cuerpo = fmt.Sprintf("El mantenimiento %s del freezer %s vence en %d dias",
				a.TipoPlanificado, numeroSerie(a), dias)
		}

		s.sink.Notificar(ctx, a.UsuarioID, titulo, cuerpo, "recordatorio", a.ID, "asignacion")
		s.workerPool.Dispatch(notification.Recordatorio{
			UsuarioID: a.UsuarioID,
			Titulo:    titulo,
			Cuerpo:    cuerpo,
		})
		recordadas++
	}

	log.Printf("Reminder sweep cycle finished: %d pending, %d reminded, %d expired",
		len(pendientes), recordadas, vencidas)
}

// marcarVencida transitions one overdue assignment and notifies the assignee.
// A concurrent completion wins the guarded update; nothing is sent then.
func (s *Service) marcarVencida(ctx context.Context, a model.AsignacionMantenimiento) {
	ok, err := s.store.MarcarVencida(ctx, a.ID)
	if err != nil {
		log.Printf("Error expiring assignment %d: %v", a.ID, err)
		return
	}
	if !ok {
		return
	}
	cuerpo := fmt.Sprintf("El mantenimiento %s del freezer %s vencio el %s sin completarse",
		a.TipoPlanificado, numeroSerie(a), a.FechaProgramada.Format("2006-01-02"))
	s.sink.Notificar(ctx, a.UsuarioID, "Mantenimiento vencido", cuerpo, "vencimiento", a.ID, "asignacion")
	s.workerPool.Dispatch(notification.Recordatorio{
		UsuarioID: a.UsuarioID,
		Titulo:    "Mantenimiento vencido",
		Cuerpo:    cuerpo,
	})
}

// diasRestantes computes ceil((scheduled - now) / 1 day). Zero means due
// today, negative means overdue.
func diasRestantes(now, programada time.Time) int {
	return int(math.Ceil(programada.Sub(now).Hours() / 24))
}

func numeroSerie(a model.AsignacionMantenimiento) string {
	if a.Freezer != nil {
		return a.Freezer.NumeroSerie
	}
	return fmt.Sprintf("%d", a.FreezerID)
}
