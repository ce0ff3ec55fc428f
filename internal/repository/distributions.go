package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
	"eventro/internal/models"
)

type DistributionRepository struct {
	db *database.DB
}

func NewDistributionRepository(db *database.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

// Create inserts the distribution unless the attendee already received this item type.
// Returns false when the (attendee_id, item_type) row already existed.
func (r *DistributionRepository) Create(ctx context.Context, d *models.Distribution) (bool, error) {
	query := `
		INSERT INTO distributions (attendee_id, item_type, event_id, day_number, distributed_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (attendee_id, item_type) DO NOTHING
		RETURNING id, distributed_at`

	err := r.db.QueryRowContext(ctx, query,
		d.AttendeeID,
		d.ItemType,
		d.EventID,
		d.DayNumber,
		d.DistributedBy,
	).Scan(&d.ID, &d.DistributedAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *DistributionRepository) GetByAttendeeAndItem(ctx context.Context, attendeeID, itemType string) (*models.Distribution, error) {
	d := &models.Distribution{}
	query := `
		SELECT id, attendee_id, item_type, event_id, day_number, distributed_at, distributed_by
		FROM distributions
		WHERE attendee_id = $1 AND item_type = $2`

	err := r.db.QueryRowContext(ctx, query, attendeeID, itemType).Scan(
		&d.ID,
		&d.AttendeeID,
		&d.ItemType,
		&d.EventID,
		&d.DayNumber,
		&d.DistributedAt,
		&d.DistributedBy,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return d, err
}

func (r *DistributionRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Distribution, error) {
	query := `
		SELECT id, attendee_id, item_type, event_id, day_number, distributed_at, distributed_by
		FROM distributions
		WHERE event_id = $1
		ORDER BY distributed_at`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Distribution{}
	for rows.Next() {
		var d models.Distribution
		if err := rows.Scan(&d.ID, &d.AttendeeID, &d.ItemType, &d.EventID, &d.DayNumber, &d.DistributedAt, &d.DistributedBy); err != nil {
			return nil, err
		}
		items = append(items, d)
	}

	return items, rows.Err()
}
