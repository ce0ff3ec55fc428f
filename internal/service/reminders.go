package service

import (
	"context"
	"fmt"
	"time"

	"eventro/internal/clock"
	"eventro/internal/external"
	"eventro/internal/logger"
	"eventro/internal/models"
)

type ReminderService struct {
	guard     organizerGuard
	events    EventStore
	tickets   TicketStore
	reminders ReminderStore
	ai        *AIService
	functions Functions
	mailer    Mailer
	notifier  Notifier
	clock     clock.Clock
}

// NewReminderService creates the reminder job service; mailer and notifier may be nil
func NewReminderService(events EventStore, profiles ProfileStore, tickets TicketStore, reminders ReminderStore, ai *AIService, functions Functions, mailer Mailer, notifier Notifier, clk clock.Clock) *ReminderService {
	return &ReminderService{
		guard:     organizerGuard{events: events, profiles: profiles},
		events:    events,
		tickets:   tickets,
		reminders: reminders,
		ai:        ai,
		functions: functions,
		mailer:    mailer,
		notifier:  notifier,
		clock:     clk,
	}
}

// ReminderRun summarizes one pass of the reminder job
type ReminderRun struct {
	Events int
	Sent   int
	Failed int
}

// RunOnce sends reminders for events starting within lead from now.
// Each holder is claimed before sending so a reminder goes out at most once;
// a failed delivery releases the claim for the next run.
func (s *ReminderService) RunOnce(ctx context.Context, lead time.Duration) (ReminderRun, error) {
	log := logger.WithContext(ctx)
	now := s.clock.Now()

	events, err := s.events.ListStartingBetween(ctx, now, now.Add(lead))
	if err != nil {
		return ReminderRun{}, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	run := ReminderRun{Events: len(events)}
	for i := range events {
		event := &events[i]

		holders, err := s.tickets.ListHolders(ctx, event.ID)
		if err != nil {
			log.Error("Failed to list ticket holders", "event_id", event.ID, "error", err)
			continue
		}

		seen := make(map[string]bool, len(holders))
		for _, h := range holders {
			if seen[h.UserID] {
				continue
			}
			seen[h.UserID] = true

			if ctx.Err() != nil {
				return run, ctx.Err()
			}

			sent, err := s.remind(ctx, event, h)
			if err != nil {
				run.Failed++
				log.Warn("Failed to send reminder", "event_id", event.ID, "user_id", h.UserID, "error", err)
				continue
			}
			if sent {
				run.Sent++
			}
		}
	}

	return run, nil
}

func (s *ReminderService) remind(ctx context.Context, event *models.Event, h models.TicketHolder) (bool, error) {
	claimed, err := s.reminders.Claim(ctx, event.ID, h.UserID)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder: %w", err)
	}
	if !claimed {
		return false, nil
	}

	name := (&models.Profile{FirstName: h.FirstName, LastName: h.LastName}).FullName()
	email := s.ai.GenerateEventReminderEmail(ctx, event, name)

	if err := s.deliver(ctx, h.Email, email); err != nil {
		if rerr := s.reminders.Release(ctx, event.ID, h.UserID); rerr != nil {
			logger.WithContext(ctx).Error("Failed to release reminder claim", "event_id", event.ID, "user_id", h.UserID, "error", rerr)
		}
		return false, err
	}

	if s.notifier != nil {
		s.notifier.Dispatch(models.NotificationRequestedEvent{
			UserID:     h.UserID,
			EventID:    event.ID,
			EventTitle: event.Title,
			Type:       models.NotificationReminder,
			Timestamp:  s.clock.Now(),
		})
	}
	return true, nil
}

// deliver tries the send-reminder-email function first and SMTP second
func (s *ReminderService) deliver(ctx context.Context, to string, email models.GeneratedEmail) error {
	if to == "" {
		return fmt.Errorf("ticket holder has no email")
	}

	err := s.functions.SendReminderEmail(ctx, external.SendReminderEmailRequest{
		To:      to,
		Subject: email.Subject,
		Content: email.Content,
	})
	if err == nil {
		return nil
	}
	if s.mailer == nil {
		return fmt.Errorf("reminder function failed and smtp is not configured: %w", err)
	}

	logger.WithContext(ctx).Warn("Reminder function failed, sending over SMTP", "error", err)
	if merr := s.mailer.Send(to, email.Subject, email.Content); merr != nil {
		return fmt.Errorf("smtp delivery failed: %w", merr)
	}
	return nil
}

// Preview lets the organizer see the reminder email attendees will receive
func (s *ReminderService) Preview(ctx context.Context, actorID string, eventID int64) (*models.GeneratedEmail, error) {
	event, actor, err := s.guard.require(ctx, actorID, eventID)
	if err != nil {
		return nil, err
	}
	email := s.ai.GenerateEventReminderEmail(ctx, event, actor.FullName())
	return &email, nil
}
