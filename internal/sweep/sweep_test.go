package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freezer-fleet-backend/config"
	"freezer-fleet-backend/internal/db"
	"freezer-fleet-backend/internal/model"
	"freezer-fleet-backend/internal/notification"
	"freezer-fleet-backend/internal/store"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:sweeptest%d?mode=memory&cache=shared", n)
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gormDB
}

// sinkSpy captures inbox notifications; it doubles as the store recorder.
type sinkSpy struct {
	mensajes []string
}

func (s *sinkSpy) Registrar(context.Context, uint, string, string) {}
func (s *sinkSpy) NotificarAdministradores(context.Context, string, string, string, uint, string) {
}
func (s *sinkSpy) Notificar(_ context.Context, _ uint, titulo, mensaje, _ string, _ uint, _ string) {
	s.mensajes = append(s.mensajes, titulo+": "+mensaje)
}

// pushSpy records the payload of every web push send.
type pushSpy struct {
	payloads chan string
}

func (p *pushSpy) Send(payload []byte, _ *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
	p.payloads <- string(payload)
	return &http.Response{
		StatusCode: http.StatusCreated,
		Body:       http.NoBody,
	}, nil
}

func seedAsignacion(t *testing.T, gormDB *gorm.DB, usuarioID, freezerID uint, programada time.Time) *model.AsignacionMantenimiento {
	t.Helper()
	a := model.AsignacionMantenimiento{
		FreezerID:       freezerID,
		UsuarioID:       usuarioID,
		FechaCreacion:   time.Now().UTC(),
		FechaProgramada: programada,
		Estado:          model.AsignacionPendiente,
		TipoPlanificado: model.MantenimientoPreventivo,
	}
	require.NoError(t, gormDB.Create(&a).Error)
	return &a
}

func TestSweepOnce(t *testing.T) {
	gormDB := newTestDB(t)
	spy := &sinkSpy{}
	appStore := store.NewGormStore(gormDB, spy)

	operario := model.Usuario{ID: 10, Nombre: "Marta", Email: "marta@frigorid.test", Rol: model.RolOperador, Activo: true}
	require.NoError(t, gormDB.Create(&operario).Error)
	freezer := model.Freezer{NumeroSerie: "SW-001", Modelo: "FH-300", Tipo: model.TipoHorizontal, Capacidad: 300, Estado: model.EstadoDisponible}
	require.NoError(t, gormDB.Create(&freezer).Error)
	require.NoError(t, gormDB.Create(&model.PushSubscription{
		Endpoint:  "https://push.example/sw",
		P256DH:    "clave",
		Auth:      "auth",
		UsuarioID: operario.ID,
		CreatedAt: time.Now().UTC(),
	}).Error)

	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	lejana := seedAsignacion(t, gormDB, operario.ID, freezer.ID, now.Add(5*24*time.Hour))
	enVentana := seedAsignacion(t, gormDB, operario.ID, freezer.ID, now.Add(2*24*time.Hour))
	hoyMasTarde := seedAsignacion(t, gormDB, operario.ID, freezer.ID, now.Add(2*time.Hour))
	hoyMasTemprano := seedAsignacion(t, gormDB, operario.ID, freezer.ID, now.Add(-2*time.Hour))
	vencida := seedAsignacion(t, gormDB, operario.ID, freezer.ID, now.Add(-30*time.Hour))

	cfg := &config.Config{}
	cfg.Sweep.AnticipationDays = 2
	cfg.WorkerPool.Size = 2

	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, &webpush.Options{})
	sender := &pushSpy{payloads: make(chan string, 16)}
	pool.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	svc := NewService(cfg, appStore, spy, pool)
	svc.SweepOnce(ctx, now)

	t.Run("only the overdue assignment expires", func(t *testing.T) {
		estados := map[uint]model.EstadoAsignacion{}
		var todas []model.AsignacionMantenimiento
		require.NoError(t, gormDB.Find(&todas).Error)
		for _, a := range todas {
			estados[a.ID] = a.Estado
		}
		assert.Equal(t, model.AsignacionPendiente, estados[lejana.ID])
		assert.Equal(t, model.AsignacionPendiente, estados[enVentana.ID])
		assert.Equal(t, model.AsignacionPendiente, estados[hoyMasTarde.ID])
		assert.Equal(t, model.AsignacionPendiente, estados[hoyMasTemprano.ID], "due earlier today is not overdue yet")
		assert.Equal(t, model.AsignacionVencida, estados[vencida.ID])
	})

	t.Run("inbox notifications for the window plus the expiry", func(t *testing.T) {
		require.Len(t, spy.mensajes, 4)
		var hoy, enUnDia, enDosDias, vencidos int
		for _, m := range spy.mensajes {
			switch {
			case strings.Contains(m, "vence hoy"):
				hoy++
			case strings.Contains(m, "vence en 1 dias"):
				enUnDia++
			case strings.Contains(m, "vence en 2 dias"):
				enDosDias++
			case strings.Contains(m, "Mantenimiento vencido"):
				vencidos++
			}
		}
		assert.Equal(t, 1, hoy, "only the assignment whose hour already passed is due today")
		assert.Equal(t, 1, enUnDia, "later today rounds up to one day remaining")
		assert.Equal(t, 1, enDosDias)
		assert.Equal(t, 1, vencidos)
	})

	t.Run("each notification is also pushed", func(t *testing.T) {
		var cuerpos []string
		for i := 0; i < 4; i++ {
			select {
			case p := <-sender.payloads:
				var r notification.Recordatorio
				require.NoError(t, json.Unmarshal([]byte(p), &r))
				cuerpos = append(cuerpos, r.Cuerpo)
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for push deliveries")
			}
		}
		assert.Len(t, cuerpos, 4)
	})

	t.Run("a second sweep re-sends the window reminders but not the expiry", func(t *testing.T) {
		antes := len(spy.mensajes)
		svc.SweepOnce(ctx, now)
		assert.Equal(t, antes+3, len(spy.mensajes), "the expired assignment is no longer pending")
	})
}

func TestDiasRestantes(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, diasRestantes(now, now.Add(-2*time.Hour)), "earlier today is still due today")
	assert.Equal(t, 1, diasRestantes(now, now.Add(20*time.Hour)))
	assert.Equal(t, 2, diasRestantes(now, now.Add(2*24*time.Hour)))
	assert.Equal(t, 5, diasRestantes(now, now.Add(5*24*time.Hour)))
	assert.Equal(t, -1, diasRestantes(now, now.Add(-30*time.Hour)))
}
