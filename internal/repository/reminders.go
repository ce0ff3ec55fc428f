package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
)

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Claim marks the reminder as sent; false means another run already claimed it
func (r *ReminderRepository) Claim(ctx context.Context, eventID int64, userID string) (bool, error) {
	var claimed int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO reminders_sent (event_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
		RETURNING event_id`, eventID, userID).Scan(&claimed)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Release drops a claim so a failed delivery is retried on the next run
func (r *ReminderRepository) Release(ctx context.Context, eventID int64, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM reminders_sent WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	return err
}
