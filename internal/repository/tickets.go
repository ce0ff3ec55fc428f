package repository

import (
	"context"
	"database/sql"
	"fmt"

	"eventro/internal/database"
	"eventro/internal/models"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (user_id, event_id, ticket_code)
		VALUES ($1, $2, $3)
		RETURNING id, purchased_at`

	return r.db.QueryRowContext(ctx, query,
		ticket.UserID,
		ticket.EventID,
		ticket.Code,
	).Scan(&ticket.ID, &ticket.PurchasedAt)
}

// CreateBatch inserts tickets in one transaction, skipping codes that already exist.
// Returns the number of inserted rows.
func (r *TicketRepository) CreateBatch(ctx context.Context, tickets []*models.Ticket) (int, error) {
	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tickets (user_id, event_id, ticket_code)
			VALUES ($1, $2, $3)
			ON CONFLICT (ticket_code) DO NOTHING
			RETURNING id, purchased_at`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range tickets {
			err := stmt.QueryRowContext(ctx, t.UserID, t.EventID, t.Code).Scan(&t.ID, &t.PurchasedAt)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("ticket %s: %w", t.Code, err)
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*models.Ticket, error) {
	return r.getOne(ctx, `WHERE ticket_code = $1`, code)
}

// FindByPartialCode returns the oldest ticket whose code contains fragment, case-insensitively
func (r *TicketRepository) FindByPartialCode(ctx context.Context, fragment string) (*models.Ticket, error) {
	return r.getOne(ctx, `WHERE ticket_code ILIKE '%' || $1 || '%' ORDER BY purchased_at, id LIMIT 1`, escapeLike(fragment))
}

func (r *TicketRepository) getOne(ctx context.Context, where string, arg any) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `SELECT id, user_id, event_id, ticket_code, purchased_at FROM tickets ` + where

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.Code,
		&ticket.PurchasedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID string) ([]models.Ticket, error) {
	query := `
		SELECT id, user_id, event_id, ticket_code, purchased_at
		FROM tickets
		WHERE user_id = $1
		ORDER BY purchased_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []models.Ticket{}
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.EventID, &t.Code, &t.PurchasedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

// ListHolders returns the tickets of an event joined with their owners' profiles
func (r *TicketRepository) ListHolders(ctx context.Context, eventID int64) ([]models.TicketHolder, error) {
	query := `
		SELECT t.id, t.ticket_code, p.id, p.first_name, p.last_name, p.email
		FROM tickets t
		JOIN profiles p ON p.id = t.user_id
		WHERE t.event_id = $1
		ORDER BY t.purchased_at`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holders := []models.TicketHolder{}
	for rows.Next() {
		var h models.TicketHolder
		if err := rows.Scan(&h.TicketID, &h.TicketCode, &h.UserID, &h.FirstName, &h.LastName, &h.Email); err != nil {
			return nil, err
		}
		holders = append(holders, h)
	}

	return holders, rows.Err()
}

func (r *TicketRepository) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}
