package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
	"eventro/internal/models"
)

type CheckInRepository struct {
	db *database.DB
}

func NewCheckInRepository(db *database.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Create inserts the check-in unless the ticket is already checked in for that day.
// Returns false when the (ticket_id, day_number) row already existed.
func (r *CheckInRepository) Create(ctx context.Context, checkIn *models.CheckIn) (bool, error) {
	query := `
		INSERT INTO check_ins (ticket_id, event_id, day_number, checked_in_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ticket_id, day_number) DO NOTHING
		RETURNING id, checked_in_at`

	err := r.db.QueryRowContext(ctx, query,
		checkIn.TicketID,
		checkIn.EventID,
		checkIn.DayNumber,
		checkIn.CheckedInBy,
	).Scan(&checkIn.ID, &checkIn.CheckedInAt)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (r *CheckInRepository) GetByTicketAndDay(ctx context.Context, ticketID string, dayNumber int) (*models.CheckIn, error) {
	checkIn := &models.CheckIn{}
	query := `
		SELECT id, ticket_id, event_id, day_number, checked_in_at, checked_in_by
		FROM check_ins
		WHERE ticket_id = $1 AND day_number = $2`

	err := r.db.QueryRowContext(ctx, query, ticketID, dayNumber).Scan(
		&checkIn.ID,
		&checkIn.TicketID,
		&checkIn.EventID,
		&checkIn.DayNumber,
		&checkIn.CheckedInAt,
		&checkIn.CheckedInBy,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return checkIn, err
}

// ListByEvent returns check-ins of an event, all days when dayNumber is 0
func (r *CheckInRepository) ListByEvent(ctx context.Context, eventID int64, dayNumber int) ([]models.CheckIn, error) {
	query := `
		SELECT id, ticket_id, event_id, day_number, checked_in_at, checked_in_by
		FROM check_ins
		WHERE event_id = $1 AND ($2 = 0 OR day_number = $2)
		ORDER BY checked_in_at`

	rows, err := r.db.QueryContext(ctx, query, eventID, dayNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	checkIns := []models.CheckIn{}
	for rows.Next() {
		var c models.CheckIn
		if err := rows.Scan(&c.ID, &c.TicketID, &c.EventID, &c.DayNumber, &c.CheckedInAt, &c.CheckedInBy); err != nil {
			return nil, err
		}
		checkIns = append(checkIns, c)
	}

	return checkIns, rows.Err()
}

func (r *CheckInRepository) CountByDay(ctx context.Context, eventID int64) ([]models.DayCount, error) {
	query := `
		SELECT day_number, COUNT(*)
		FROM check_ins
		WHERE event_id = $1
		GROUP BY day_number
		ORDER BY day_number`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []models.DayCount{}
	for rows.Next() {
		var dc models.DayCount
		if err := rows.Scan(&dc.DayNumber, &dc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, dc)
	}

	return counts, rows.Err()
}
