package notification

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"freezer-fleet-backend/internal/model"
)

// Recordatorio is a reminder-channel job: a message for one user, delivered
// to every push subscription that user has registered.
type Recordatorio struct {
	UsuarioID uint   `json:"-"`
	Titulo    string `json:"titulo"`
	Cuerpo    string `json:"cuerpo"`
}

// PushSender defines the interface for sending a web push message.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real implementation backed by the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool manages a pool of workers delivering reminders.
type WorkerPool struct {
	size    int
	jobs    chan Recordatorio
	db      *gorm.DB
	webpush *webpush.Options
	sender  PushSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Recordatorio, size*4),
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// SetSender replaces the push sender; tests use this to observe deliveries.
func (wp *WorkerPool) SetSender(s PushSender) {
	wp.sender = s
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

// worker is the actual worker goroutine.
func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Reminder worker %d started", id)
	for {
		select {
		case job := <-wp.jobs:
			wp.entregar(ctx, job)
		case <-ctx.Done():
			log.Printf("Reminder worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues a reminder for delivery.
func (wp *WorkerPool) Dispatch(r Recordatorio) {
	wp.jobs <- r
}

// entregar fetches the user's subscriptions and pushes the reminder to each.
// A failed delivery aborts only that reminder.
func (wp *WorkerPool) entregar(ctx context.Context, job Recordatorio) {
	var subs []model.PushSubscription
	if err := wp.db.WithContext(ctx).
		Where("usuario_id = ?", job.UsuarioID).
		Find(&subs).Error; err != nil {
		log.Printf("Error fetching subscriptions for user %d: %v", job.UsuarioID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		log.Printf("Error marshaling reminder for user %d: %v", job.UsuarioID, err)
		return
	}

	for _, sub := range subs {
		wp.enviar(ctx, sub, payload)
	}
}

// enviar sends a single web push message, deleting the subscription row when
// the endpoint reports it expired.
func (wp *WorkerPool) enviar(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending reminder to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
