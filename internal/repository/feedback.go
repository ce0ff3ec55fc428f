package repository

import (
	"context"

	"eventro/internal/database"
	"eventro/internal/models"
)

type FeedbackRepository struct {
	db *database.DB
}

func NewFeedbackRepository(db *database.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Upsert stores one rating per user and event, replacing an earlier one
func (r *FeedbackRepository) Upsert(ctx context.Context, f *models.Feedback) error {
	query := `
		INSERT INTO feedback (event_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, created_at = NOW()
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, f.EventID, f.UserID, f.Rating, f.Comment).Scan(&f.ID, &f.CreatedAt)
}

func (r *FeedbackRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Feedback, error) {
	query := `
		SELECT id, event_id, user_id, rating, comment, created_at
		FROM feedback
		WHERE event_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := rows.Scan(&f.ID, &f.EventID, &f.UserID, &f.Rating, &f.Comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}

	return items, rows.Err()
}
