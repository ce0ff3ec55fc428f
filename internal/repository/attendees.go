package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
	"eventro/internal/models"
)

type AttendeeRepository struct {
	db *database.DB
}

func NewAttendeeRepository(db *database.DB) *AttendeeRepository {
	return &AttendeeRepository{db: db}
}

// Resolve returns the attendee with attendee.Email, creating it from attendee when absent.
// The upsert keeps concurrent scans of the same holder on a single row.
// Email must already be normalized by the caller.
func (r *AttendeeRepository) Resolve(ctx context.Context, attendee *models.Attendee) error {
	query := `
		INSERT INTO attendees (name, email, company, position, unique_code)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, name, company, position, unique_code, created_at`

	return r.db.QueryRowContext(ctx, query,
		attendee.Name,
		attendee.Email,
		attendee.Company,
		attendee.Position,
		attendee.UniqueCode,
	).Scan(
		&attendee.ID,
		&attendee.Name,
		&attendee.Company,
		&attendee.Position,
		&attendee.UniqueCode,
		&attendee.CreatedAt,
	)
}

func (r *AttendeeRepository) GetByEmail(ctx context.Context, email string) (*models.Attendee, error) {
	attendee := &models.Attendee{}
	query := `
		SELECT id, name, email, company, position, unique_code, created_at
		FROM attendees
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&attendee.ID,
		&attendee.Name,
		&attendee.Email,
		&attendee.Company,
		&attendee.Position,
		&attendee.UniqueCode,
		&attendee.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return attendee, err
}
