package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freezer-fleet-backend/internal/db"
	"freezer-fleet-backend/internal/model"
)

var testDBSeq int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	n := atomic.AddInt64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:workertest%d?mode=memory&cache=shared", n)
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

// mockSender replaces the web push transport.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func seedSubscription(t *testing.T, gormDB *gorm.DB, endpoint string, usuarioID uint) {
	t.Helper()
	require.NoError(t, gormDB.Create(&model.PushSubscription{
		Endpoint:  endpoint,
		P256DH:    "p256dh",
		Auth:      "auth",
		UsuarioID: usuarioID,
		CreatedAt: time.Now().UTC(),
	}).Error)
}

func TestWorkerPoolDelivery(t *testing.T) {
	gormDB := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	seedSubscription(t, gormDB, "https://push.example/uno", 10)
	seedSubscription(t, gormDB, "https://push.example/dos", 10)
	seedSubscription(t, gormDB, "https://push.example/ajeno", 99)

	entregas := make(chan string, 8)
	wp.SetSender(&mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, _ *webpush.Options) (*http.Response, error) {
			var r Recordatorio
			require.NoError(t, json.Unmarshal(payload, &r))
			assert.Equal(t, "Mantenimiento programado", r.Titulo)
			entregas <- sub.Endpoint
			return &http.Response{StatusCode: http.StatusCreated, Body: http.NoBody}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Recordatorio{
		UsuarioID: 10,
		Titulo:    "Mantenimiento programado",
		Cuerpo:    "El mantenimiento Preventivo del freezer FZ-1 vence hoy",
	})

	recibidos := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case ep := <-entregas:
			recibidos[ep] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for deliveries")
		}
	}
	assert.True(t, recibidos["https://push.example/uno"])
	assert.True(t, recibidos["https://push.example/dos"])
	assert.False(t, recibidos["https://push.example/ajeno"], "other users' devices must not receive the reminder")
}

func TestWorkerPoolExpiredSubscription(t *testing.T) {
	gormDB := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	seedSubscription(t, gormDB, "https://push.example/caducada", 20)

	hecho := make(chan struct{}, 1)
	wp.SetSender(&mockSender{
		SendFunc: func([]byte, *webpush.Subscription, *webpush.Options) (*http.Response, error) {
			hecho <- struct{}{}
			return &http.Response{StatusCode: http.StatusGone, Body: http.NoBody}, nil
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.Dispatch(Recordatorio{UsuarioID: 20, Titulo: "t", Cuerpo: "c"})

	select {
	case <-hecho:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the push attempt")
	}

	// The delete runs right after the send; poll briefly for it.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var count int64
		require.NoError(t, gormDB.Model(&model.PushSubscription{}).Count(&count).Error)
		if count == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expired subscription was never deleted")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
