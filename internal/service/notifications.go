package service

import (
	"context"
	"fmt"

	apperrors "eventro/internal/errors"
	"eventro/internal/models"

	"github.com/google/uuid"
)

const notificationsPageSize = 100

type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// Record persists a requested notification; called by the notification consumer
func (s *NotificationService) Record(ctx context.Context, req models.NotificationRequestedEvent) (*models.Notification, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: notification without user", apperrors.ErrInvalidInput)
	}

	title, message := NotificationContent(req)
	n := &models.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   title,
		Message: message,
	}
	if req.EventID != 0 {
		eventID := req.EventID
		n.EventID = &eventID
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	return n, nil
}

// NotificationContent renders the title and text shown to the user
func NotificationContent(req models.NotificationRequestedEvent) (string, string) {
	switch req.Type {
	case models.NotificationCheckIn:
		return "Checked in to " + req.EventTitle,
			fmt.Sprintf("You have been checked in for day %d of %s.", req.DayNumber, req.EventTitle)
	case models.NotificationDistribution:
		return "Item received at " + req.EventTitle,
			fmt.Sprintf("You received: %s (day %d of %s).", req.ItemType, req.DayNumber, req.EventTitle)
	case models.NotificationMessage:
		return "New message about " + req.EventTitle, req.Text
	case models.NotificationReminder:
		return req.EventTitle + " is coming up", req.Text
	default:
		return req.EventTitle, req.Text
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	items, err := s.notifications.ListByUser(ctx, userID, unreadOnly, notificationsPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return items, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrNotFound
	}
	ok, err := s.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrNotFound
	}
	ok, err := s.notifications.Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}
