package service

import (
	"context"
	"fmt"
	"strings"

	"eventro/internal/database"
	apperrors "eventro/internal/errors"
	"eventro/internal/models"
	"eventro/internal/scan"

	"github.com/google/uuid"
)

// minPartialCodeLength keeps short fragments from matching an arbitrary ticket
const minPartialCodeLength = 4

const maxCodeAttempts = 3

type TicketService struct {
	tickets  TicketStore
	events   EventStore
	profiles ProfileStore
}

func NewTicketService(tickets TicketStore, events EventStore, profiles ProfileStore) *TicketService {
	return &TicketService{
		tickets:  tickets,
		events:   events,
		profiles: profiles,
	}
}

// Lookup resolves a scanned payload to a ticket. Lookups run in strict order:
// exact id, exact code, then case-insensitive partial code; the first hit wins.
// A miss returns ErrTicketNotFound and creates nothing.
func (s *TicketService) Lookup(ctx context.Context, payload string) (*models.Ticket, error) {
	q := scan.Parse(payload)
	if q.Empty() {
		return nil, fmt.Errorf("%w: empty ticket payload", apperrors.ErrInvalidInput)
	}

	if q.ID != "" {
		if _, err := uuid.Parse(q.ID); err == nil {
			ticket, err := s.tickets.GetByID(ctx, q.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to get ticket by id: %w", err)
			}
			if ticket != nil {
				return ticket, nil
			}
		}
	}

	if q.Code != "" {
		ticket, err := s.tickets.GetByCode(ctx, q.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to get ticket by code: %w", err)
		}
		if ticket != nil {
			return ticket, nil
		}

		if len(q.Code) >= minPartialCodeLength {
			ticket, err = s.tickets.FindByPartialCode(ctx, q.Code)
			if err != nil {
				return nil, fmt.Errorf("failed to search ticket by partial code: %w", err)
			}
			if ticket != nil {
				return ticket, nil
			}
		}
	}

	return nil, apperrors.ErrTicketNotFound
}

// Purchase issues a ticket for the user
func (s *TicketService) Purchase(ctx context.Context, userID string, eventID int64) (*models.Ticket, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, apperrors.ErrProfileNotFound
	}

	ticket := &models.Ticket{UserID: userID, EventID: eventID}
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		ticket.Code = GenerateTicketCode(eventID)
		err = s.tickets.Create(ctx, ticket)
		if err == nil {
			return ticket, nil
		}
		if !database.IsUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create ticket: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to create ticket: %w", err)
}

func (s *TicketService) ListMine(ctx context.Context, userID string) ([]models.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// Import creates tickets for an event in bulk. Tickets without a code get a generated one;
// codes that already exist are skipped. Returns the number of created tickets.
func (s *TicketService) Import(ctx context.Context, eventID int64, tickets []*models.Ticket) (int, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return 0, apperrors.ErrEventNotFound
	}

	for _, t := range tickets {
		if _, err := uuid.Parse(t.UserID); err != nil {
			return 0, fmt.Errorf("%w: invalid user id %q", apperrors.ErrInvalidInput, t.UserID)
		}
		t.EventID = eventID
		t.Code = strings.TrimSpace(t.Code)
		if t.Code == "" {
			t.Code = GenerateTicketCode(eventID)
		}
	}

	inserted, err := s.tickets.CreateBatch(ctx, tickets)
	if err != nil {
		return 0, fmt.Errorf("failed to import tickets: %w", err)
	}
	return inserted, nil
}

// GenerateTicketCode returns a human-readable code such as EVT-42-9F1C2A7B
func GenerateTicketCode(eventID int64) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("EVT-%d-%s", eventID, strings.ToUpper(id[:8]))
}
