package service

import (
	"context"
	"fmt"

	"eventro/internal/clock"
	apperrors "eventro/internal/errors"
	"eventro/internal/logger"
	"eventro/internal/metrics"
	"eventro/internal/models"
)

type CheckInService struct {
	guard    organizerGuard
	lookup   *TicketService
	tickets  TicketStore
	checkIns CheckInStore
	notifier Notifier
	clock    clock.Clock
}

func NewCheckInService(lookup *TicketService, tickets TicketStore, events EventStore, profiles ProfileStore, checkIns CheckInStore, notifier Notifier, clk clock.Clock) *CheckInService {
	return &CheckInService{
		guard:    organizerGuard{events: events, profiles: profiles},
		lookup:   lookup,
		tickets:  tickets,
		checkIns: checkIns,
		notifier: notifier,
		clock:    clk,
	}
}

// CheckIn records that the scanned ticket was admitted on the given event day.
// When the ticket is already checked in for that day the existing record is
// returned together with ErrAlreadyCheckedIn and nothing is written.
func (s *CheckInService) CheckIn(ctx context.Context, actorID string, eventID int64, payload string, day int) (*models.CheckIn, error) {
	log := logger.WithContext(ctx)

	if day < 1 {
		return nil, fmt.Errorf("%w: day number must be at least 1", apperrors.ErrInvalidInput)
	}

	event, actor, err := s.guard.require(ctx, actorID, eventID)
	if err != nil {
		metrics.CheckIns.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}
	if day > event.Days() {
		return nil, fmt.Errorf("%w: event has %d day(s)", apperrors.ErrInvalidInput, event.Days())
	}

	ticket, err := s.lookup.Lookup(ctx, payload)
	if err != nil {
		metrics.CheckIns.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}
	if ticket.EventID != eventID {
		metrics.CheckIns.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.ErrTicketEventMismatch
	}

	checkIn := &models.CheckIn{
		TicketID:    ticket.ID,
		EventID:     eventID,
		DayNumber:   day,
		CheckedInBy: &actor.ID,
	}

	inserted, err := s.checkIns.Create(ctx, checkIn)
	if err != nil {
		metrics.CheckIns.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	if !inserted {
		metrics.CheckIns.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		existing, err := s.checkIns.GetByTicketAndDay(ctx, ticket.ID, day)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing check-in: %w", err)
		}
		return existing, apperrors.ErrAlreadyCheckedIn
	}

	metrics.CheckIns.WithLabelValues(metrics.OutcomeRecorded).Inc()
	log.Info("Ticket checked in", "event_id", eventID, "ticket_id", ticket.ID, "day", day)

	s.notifier.Dispatch(models.NotificationRequestedEvent{
		UserID:     ticket.UserID,
		EventID:    eventID,
		EventTitle: event.Title,
		Type:       models.NotificationCheckIn,
		DayNumber:  day,
		Timestamp:  s.clock.Now(),
	})

	return checkIn, nil
}

// List returns check-ins for an event; day 0 means all days
func (s *CheckInService) List(ctx context.Context, actorID string, eventID int64, day int) ([]models.CheckIn, error) {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return nil, err
	}

	checkIns, err := s.checkIns.ListByEvent(ctx, eventID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return checkIns, nil
}

func (s *CheckInService) Stats(ctx context.Context, actorID string, eventID int64) (*models.CheckInStatsResponse, error) {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return nil, err
	}

	total, err := s.tickets.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	days, err := s.checkIns.CountByDay(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}

	return &models.CheckInStatsResponse{
		EventID:      eventID,
		TotalTickets: total,
		Days:         days,
	}, nil
}
