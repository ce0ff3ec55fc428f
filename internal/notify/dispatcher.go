package notify

import (
	"context"
	"log/slog"
	"sync"

	"eventro/internal/metrics"
	"eventro/internal/models"
)

// Publisher is satisfied by *messaging.NATSClient
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Dispatcher доставляет уведомления в фоне. Dispatch никогда не блокирует вызывающего:
// при переполненной очереди уведомление отбрасывается.
type Dispatcher struct {
	publisher Publisher
	queue     chan models.NotificationRequestedEvent
	logger    *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewDispatcher creates a dispatcher; a nil publisher logs and drops every notification
func NewDispatcher(publisher Publisher, queueSize int, logger *slog.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		publisher: publisher,
		queue:     make(chan models.NotificationRequestedEvent, queueSize),
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start launches the worker goroutine
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	go d.run()
}

// Dispatch enqueues n and reports whether it was accepted
func (d *Dispatcher) Dispatch(n models.NotificationRequestedEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.Notifications.WithLabelValues(metrics.OutcomeDropped).Inc()
		return false
	}

	select {
	case d.queue <- n:
		metrics.Notifications.WithLabelValues(metrics.OutcomeQueued).Inc()
		return true
	default:
		metrics.Notifications.WithLabelValues(metrics.OutcomeDropped).Inc()
		d.logger.Warn("Notification queue full, dropping notification",
			"user_id", n.UserID, "event_id", n.EventID, "type", n.Type)
		return false
	}
}

// Stop closes the queue and waits for the worker to drain it or for ctx to end
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		d.publish(n)
	}
}

func (d *Dispatcher) publish(n models.NotificationRequestedEvent) {
	if d.publisher == nil {
		metrics.Notifications.WithLabelValues(metrics.OutcomeDropped).Inc()
		d.logger.Info("Notification not delivered, NATS disabled",
			"user_id", n.UserID, "event_id", n.EventID, "type", n.Type)
		return
	}

	if err := d.publisher.Publish(models.EventNotificationRequested, n); err != nil {
		metrics.Notifications.WithLabelValues(metrics.OutcomeFailed).Inc()
		d.logger.Error("Failed to publish notification",
			"user_id", n.UserID, "event_id", n.EventID, "type", n.Type, "error", err)
		return
	}
	metrics.Notifications.WithLabelValues(metrics.OutcomePublished).Inc()
}
