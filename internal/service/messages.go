package service

import (
	"context"
	"fmt"
	"strings"

	"eventro/internal/clock"
	"eventro/internal/database"
	apperrors "eventro/internal/errors"
	"eventro/internal/logger"
	"eventro/internal/models"

	"github.com/google/uuid"
)

type MessageService struct {
	guard    organizerGuard
	messages MessageStore
	profiles ProfileStore
	events   EventStore
	tickets  TicketStore
	notifier Notifier
	clock    clock.Clock
}

func NewMessageService(messages MessageStore, profiles ProfileStore, events EventStore, tickets TicketStore, notifier Notifier, clk clock.Clock) *MessageService {
	return &MessageService{
		guard:    organizerGuard{events: events, profiles: profiles},
		messages: messages,
		profiles: profiles,
		events:   events,
		tickets:  tickets,
		notifier: notifier,
		clock:    clk,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.Message, error) {
	subject, body := strings.TrimSpace(req.Subject), strings.TrimSpace(req.Body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("%w: subject and body are required", apperrors.ErrInvalidInput)
	}
	if _, err := uuid.Parse(req.RecipientID); err != nil {
		return nil, apperrors.ErrProfileNotFound
	}

	recipient, err := s.profiles.GetByID(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}
	if recipient == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	var eventTitle string
	if req.EventID != nil {
		event, err := s.events.GetByID(ctx, *req.EventID)
		if err != nil {
			return nil, fmt.Errorf("failed to get event: %w", err)
		}
		if event == nil {
			return nil, apperrors.ErrEventNotFound
		}
		eventTitle = event.Title
	}

	message := &models.Message{
		EventID:     req.EventID,
		SenderID:    senderID,
		RecipientID: recipient.ID,
		Subject:     subject,
		Body:        body,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	s.notifyRecipient(message, eventTitle)
	return message, nil
}

// Broadcast sends the message to every ticket holder of the event, once per user
func (s *MessageService) Broadcast(ctx context.Context, actorID string, eventID int64, req *models.BroadcastRequest) (*models.BroadcastResponse, error) {
	subject, body := strings.TrimSpace(req.Subject), strings.TrimSpace(req.Body)
	if subject == "" || body == "" {
		return nil, fmt.Errorf("%w: subject and body are required", apperrors.ErrInvalidInput)
	}

	event, actor, err := s.guard.require(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}

	holders, err := s.tickets.ListHolders(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket holders: %w", err)
	}

	seen := make(map[string]bool, len(holders))
	var messages []*models.Message
	for _, h := range holders {
		if seen[h.UserID] || h.UserID == actor.ID {
			continue
		}
		seen[h.UserID] = true
		messages = append(messages, &models.Message{
			EventID:     &eventID,
			SenderID:    actor.ID,
			RecipientID: h.UserID,
			Subject:     subject,
			Body:        body,
		})
	}

	if len(messages) == 0 {
		return &models.BroadcastResponse{Recipients: 0}, nil
	}

	if err := s.messages.CreateBatch(ctx, messages); err != nil {
		return nil, fmt.Errorf("failed to broadcast message: %w", err)
	}

	for _, m := range messages {
		s.notifyRecipient(m, event.Title)
	}

	logger.WithContext(ctx).Info("Broadcast sent", "event_id", eventID, "recipients", len(messages))
	return &models.BroadcastResponse{Recipients: len(messages)}, nil
}

func (s *MessageService) notifyRecipient(m *models.Message, eventTitle string) {
	n := models.NotificationRequestedEvent{
		UserID:     m.RecipientID,
		EventTitle: eventTitle,
		Type:       models.NotificationMessage,
		Text:       m.Subject,
		Timestamp:  s.clock.Now(),
	}
	if m.EventID != nil {
		n.EventID = *m.EventID
	}
	s.notifier.Dispatch(n)
}

func (s *MessageService) Inbox(ctx context.Context, userID string) ([]models.Message, error) {
	messages, err := s.messages.ListInbox(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return messages, nil
}

func (s *MessageService) Sent(ctx context.Context, userID string) ([]models.Message, error) {
	messages, err := s.messages.ListSent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	return messages, nil
}

func (s *MessageService) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.ErrNotFound
	}
	ok, err := s.messages.MarkRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	if !ok {
		return apperrors.ErrNotFound
	}
	return nil
}
