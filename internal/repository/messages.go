package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
	"eventro/internal/models"
)

type MessageRepository struct {
	db *database.DB
}

func NewMessageRepository(db *database.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const insertMessage = `
	INSERT INTO messages (event_id, sender_id, recipient_id, subject, body)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, read, created_at`

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.QueryRowContext(ctx, insertMessage,
		m.EventID, m.SenderID, m.RecipientID, m.Subject, m.Body,
	).Scan(&m.ID, &m.Read, &m.CreatedAt)
}

// CreateBatch inserts all messages in one transaction
func (r *MessageRepository) CreateBatch(ctx context.Context, messages []*models.Message) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertMessage)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, m := range messages {
			err := stmt.QueryRowContext(ctx,
				m.EventID, m.SenderID, m.RecipientID, m.Subject, m.Body,
			).Scan(&m.ID, &m.Read, &m.CreatedAt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MessageRepository) ListInbox(ctx context.Context, userID string) ([]models.Message, error) {
	return r.list(ctx, `WHERE recipient_id = $1`, userID)
}

func (r *MessageRepository) ListSent(ctx context.Context, userID string) ([]models.Message, error) {
	return r.list(ctx, `WHERE sender_id = $1`, userID)
}

func (r *MessageRepository) list(ctx context.Context, where, userID string) ([]models.Message, error) {
	query := `
		SELECT id, event_id, sender_id, recipient_id, subject, body, read, created_at
		FROM messages ` + where + `
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.EventID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

// MarkRead returns false unless recipientID owns the message
func (r *MessageRepository) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
