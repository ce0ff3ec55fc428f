package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"eventro/internal/database"
	"eventro/internal/models"

	"github.com/lib/pq"
)

const eventColumns = `id, slug, title, description, start_at, end_at, location, organizer, organizer_id,
		price_cents, category, tags, image_url, created_at, updated_at`

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, event *models.Event) error {
	return row.Scan(
		&event.ID,
		&event.Slug,
		&event.Title,
		&event.Description,
		&event.StartAt,
		&event.EndAt,
		&event.Location,
		&event.Organizer,
		&event.OrganizerID,
		&event.PriceCents,
		&event.Category,
		pq.Array(&event.Tags),
		&event.ImageURL,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func scanEvents(rows *sql.Rows) ([]models.Event, error) {
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (slug, title, description, start_at, end_at, location, organizer, organizer_id,
		                    price_cents, category, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Slug,
		event.Title,
		event.Description,
		event.StartAt,
		event.EndAt,
		event.Location,
		event.Organizer,
		event.OrganizerID,
		event.PriceCents,
		event.Category,
		pq.Array(nonNilTags(event.Tags)),
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	err := scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, start_at = $3, end_at = $4, location = $5,
		    price_cents = $6, category = $7, tags = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.StartAt,
		event.EndAt,
		event.Location,
		event.PriceCents,
		event.Category,
		pq.Array(nonNilTags(event.Tags)),
		event.ID,
	).Scan(&event.UpdatedAt)
}

func (r *EventRepository) UpdateImageURL(ctx context.Context, id int64, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE events SET image_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	return err
}

// List фильтрует события по тексту, категории и дате начала (YYYY-MM-DD)
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	sqlQuery := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`

	if q := strings.TrimSpace(filter.Query); q != "" {
		sqlQuery += fmt.Sprintf(` AND (title ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d OR $%d = ANY(tags))`,
			argIndex, argIndex, argIndex, argIndex+1)
		args = append(args, "%"+escapeLike(q)+"%", strings.ToLower(q))
		argIndex += 2
	}

	if filter.Category != "" {
		sqlQuery += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Date != "" {
		sqlQuery += fmt.Sprintf(" AND (start_at AT TIME ZONE 'UTC')::date = $%d", argIndex)
		args = append(args, filter.Date)
		argIndex++
	}

	sqlQuery += " ORDER BY start_at ASC, id ASC"

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		sqlQuery += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.PageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListStartingBetween returns events with from <= start_at < to
func (r *EventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE start_at >= $1 AND start_at < $2 ORDER BY start_at`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

func (r *EventRepository) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE start_at > $1 ORDER BY start_at LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, after, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListAfterID pages through all events by primary key
func (r *EventRepository) ListAfterID(ctx context.Context, afterID int64, limit int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListEngagedByUser returns events the user holds a ticket for or has favorited
func (r *EventRepository) ListEngagedByUser(ctx context.Context, userID string) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE id IN (
			SELECT event_id FROM tickets WHERE user_id = $1
			UNION
			SELECT event_id FROM favorites WHERE user_id = $1
		)
		ORDER BY start_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike экранирует спецсимволы LIKE
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
