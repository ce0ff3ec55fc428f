package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "eventro/internal/errors"
	"eventro/internal/models"
)

// IsOrganizer reports whether profile may manage event.
// Events created with an organizer_id are matched by id; older events that only
// carry the organizer display name are matched by exact "first last" equality.
func IsOrganizer(event *models.Event, profile *models.Profile) bool {
	if event == nil || profile == nil {
		return false
	}
	if event.OrganizerID != nil && *event.OrganizerID != "" {
		return *event.OrganizerID == profile.ID
	}
	name := profile.FullName()
	return name != "" && name == event.Organizer
}

// organizerGuard loads the event and acting profile and checks organizer rights
type organizerGuard struct {
	events   EventStore
	profiles ProfileStore
}

func (g organizerGuard) require(ctx context.Context, actorID string, eventID int64) (*models.Event, *models.Profile, error) {
	event, err := g.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, nil, apperrors.ErrEventNotFound
	}

	actor, err := g.profiles.GetByID(ctx, actorID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if actor == nil {
		return nil, nil, apperrors.ErrProfileNotFound
	}

	if !IsOrganizer(event, actor) {
		return nil, nil, apperrors.ErrForbidden
	}

	return event, actor, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
