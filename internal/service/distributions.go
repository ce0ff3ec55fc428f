package service

import (
	"context"
	"fmt"
	"strings"

	"eventro/internal/clock"
	apperrors "eventro/internal/errors"
	"eventro/internal/logger"
	"eventro/internal/metrics"
	"eventro/internal/models"

	"github.com/google/uuid"
)

type DistributionService struct {
	guard         organizerGuard
	lookup        *TicketService
	profiles      ProfileStore
	attendees     AttendeeStore
	distributions DistributionStore
	notifier      Notifier
	clock         clock.Clock
}

func NewDistributionService(lookup *TicketService, events EventStore, profiles ProfileStore, attendees AttendeeStore, distributions DistributionStore, notifier Notifier, clk clock.Clock) *DistributionService {
	return &DistributionService{
		guard:         organizerGuard{events: events, profiles: profiles},
		lookup:        lookup,
		profiles:      profiles,
		attendees:     attendees,
		distributions: distributions,
		notifier:      notifier,
		clock:         clk,
	}
}

// Distribute records that the holder of the scanned ticket received itemType.
// Each attendee receives an item type at most once; a repeat returns the existing
// record with ErrAlreadyDistributed. Storage failures are returned as is.
func (s *DistributionService) Distribute(ctx context.Context, actorID string, eventID int64, payload, itemType string, day int) (*models.Distribution, error) {
	log := logger.WithContext(ctx)

	itemType = strings.ToLower(strings.TrimSpace(itemType))
	if itemType == "" {
		return nil, fmt.Errorf("%w: item type is required", apperrors.ErrInvalidInput)
	}
	if day < 1 {
		return nil, fmt.Errorf("%w: day number must be at least 1", apperrors.ErrInvalidInput)
	}

	event, actor, err := s.guard.require(ctx, actorID, eventID)
	if err != nil {
		metrics.Distributions.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}

	ticket, err := s.lookup.Lookup(ctx, payload)
	if err != nil {
		metrics.Distributions.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, err
	}
	if ticket.EventID != eventID {
		metrics.Distributions.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, apperrors.ErrTicketEventMismatch
	}

	holder, err := s.profiles.GetByID(ctx, ticket.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket holder: %w", err)
	}
	if holder == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	attendee := &models.Attendee{
		Name:       holder.FullName(),
		Email:      normalizeEmail(holder.Email),
		UniqueCode: generateAttendeeCode(),
	}
	if err := s.attendees.Resolve(ctx, attendee); err != nil {
		metrics.Distributions.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to resolve attendee: %w", err)
	}

	distribution := &models.Distribution{
		AttendeeID:    attendee.ID,
		ItemType:      itemType,
		EventID:       eventID,
		DayNumber:     day,
		DistributedBy: &actor.ID,
	}

	inserted, err := s.distributions.Create(ctx, distribution)
	if err != nil {
		metrics.Distributions.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("failed to record distribution: %w", err)
	}
	if !inserted {
		metrics.Distributions.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		existing, err := s.distributions.GetByAttendeeAndItem(ctx, attendee.ID, itemType)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing distribution: %w", err)
		}
		return existing, apperrors.ErrAlreadyDistributed
	}

	metrics.Distributions.WithLabelValues(metrics.OutcomeRecorded).Inc()
	log.Info("Item distributed", "event_id", eventID, "attendee_id", attendee.ID, "item_type", itemType)

	s.notifier.Dispatch(models.NotificationRequestedEvent{
		UserID:     ticket.UserID,
		EventID:    eventID,
		EventTitle: event.Title,
		Type:       models.NotificationDistribution,
		DayNumber:  day,
		ItemType:   itemType,
		Timestamp:  s.clock.Now(),
	})

	return distribution, nil
}

func (s *DistributionService) List(ctx context.Context, actorID string, eventID int64) ([]models.Distribution, error) {
	if _, _, err := s.guard.require(ctx, actorID, eventID); err != nil {
		return nil, err
	}

	items, err := s.distributions.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list distributions: %w", err)
	}
	return items, nil
}

func generateAttendeeCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "ATT-" + strings.ToUpper(id[:10])
}
