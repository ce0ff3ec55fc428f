package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"time"

	"eventro/internal/metrics"
	"eventro/internal/models"

	"github.com/nats-io/stan.go"
)

const handleTimeout = 20 * time.Second

type NotificationRecorder interface {
	Record(ctx context.Context, req models.NotificationRequestedEvent) (*models.Notification, error)
}

type ProfileReader interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type Handlers struct {
	notifications NotificationRecorder
	profiles      ProfileReader
	mailer        Mailer
}

// NewHandlers creates consumer handlers; mailer may be nil, then only the row is stored
func NewHandlers(notifications NotificationRecorder, profiles ProfileReader, mailer Mailer) *Handlers {
	return &Handlers{
		notifications: notifications,
		profiles:      profiles,
		mailer:        mailer,
	}
}

// HandleNotificationRequested сохраняет уведомление и отправляет письмо.
// Сообщение подтверждается только после записи в БД.
func (h *Handlers) HandleNotificationRequested(m *stan.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	if err := h.processNotification(ctx, m.Data); err != nil {
		slog.Error("Failed to process notification", "sequence", m.Sequence, "error", err)
		return
	}

	if err := m.Ack(); err != nil {
		slog.Error("Failed to ack notification", "sequence", m.Sequence, "error", err)
	}
}

// processNotification returns an error only when the message should be redelivered
func (h *Handlers) processNotification(ctx context.Context, data []byte) error {
	var event models.NotificationRequestedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		// битое сообщение не станет валидным при повторе
		slog.Error("Dropping malformed notification", "error", err)
		metrics.Notifications.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil
	}

	slog.Info("Processing notification",
		"user_id", event.UserID,
		"event_id", event.EventID,
		"type", event.Type)

	n, err := h.notifications.Record(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	h.sendEmail(ctx, event.UserID, n)
	return nil
}

func (h *Handlers) sendEmail(ctx context.Context, userID string, n *models.Notification) {
	if h.mailer == nil {
		return
	}

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		slog.Warn("Skipping notification email, profile unavailable", "user_id", userID, "error", err)
		return
	}
	if profile.Email == "" {
		return
	}

	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>",
		html.EscapeString(profile.FullName()),
		html.EscapeString(n.Message))

	if err := h.mailer.Send(profile.Email, n.Title, body); err != nil {
		slog.Warn("Failed to send notification email", "user_id", userID, "error", err)
		metrics.Notifications.WithLabelValues(metrics.OutcomeFailed).Inc()
		return
	}
	slog.Debug("Notification email sent", "user_id", userID, "type", n.Type)
}
