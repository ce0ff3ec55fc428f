package service

import (
	"context"
	"fmt"

	"eventro/internal/database"
	apperrors "eventro/internal/errors"
	"eventro/internal/models"
)

type FavoriteService struct {
	favorites FavoriteStore
	events    EventStore
}

func NewFavoriteService(favorites FavoriteStore, events EventStore) *FavoriteService {
	return &FavoriteService{favorites: favorites, events: events}
}

// Add is idempotent
func (s *FavoriteService) Add(ctx context.Context, userID string, eventID int64) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return apperrors.ErrEventNotFound
	}

	if err := s.favorites.Add(ctx, userID, eventID); err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID string, eventID int64) error {
	if err := s.favorites.Remove(ctx, userID, eventID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Event, error) {
	events, err := s.favorites.ListEvents(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return events, nil
}
