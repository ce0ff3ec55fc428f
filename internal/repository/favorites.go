package repository

import (
	"context"

	"eventro/internal/database"
	"eventro/internal/models"
)

type FavoriteRepository struct {
	db *database.DB
}

func NewFavoriteRepository(db *database.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID string, eventID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, event_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, eventID)
	return err
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID string, eventID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND event_id = $2`, userID, eventID)
	return err
}

func (r *FavoriteRepository) ListEvents(ctx context.Context, userID string) ([]models.Event, error) {
	query := `
		SELECT e.id, e.slug, e.title, e.description, e.start_at, e.end_at, e.location, e.organizer, e.organizer_id,
		       e.price_cents, e.category, e.tags, e.image_url, e.created_at, e.updated_at
		FROM favorites f
		JOIN events e ON e.id = f.event_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}
