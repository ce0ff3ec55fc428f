package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
	"eventro/internal/models"
)

type BillRepository struct {
	db *database.DB
}

func NewBillRepository(db *database.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, b *models.Bill) error {
	query := `
		INSERT INTO bills (event_id, created_by, description, category, amount_cents, bill_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		b.EventID,
		b.CreatedBy,
		b.Description,
		b.Category,
		b.AmountCents,
		b.BillDate,
	).Scan(&b.ID, &b.CreatedAt)
}

func (r *BillRepository) GetByID(ctx context.Context, id string) (*models.Bill, error) {
	b := &models.Bill{}
	query := `
		SELECT id, event_id, created_by, description, category, amount_cents, receipt_url, bill_date, created_at
		FROM bills
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.EventID, &b.CreatedBy, &b.Description, &b.Category,
		&b.AmountCents, &b.ReceiptURL, &b.BillDate, &b.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return b, err
}

func (r *BillRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Bill, error) {
	query := `
		SELECT id, event_id, created_by, description, category, amount_cents, receipt_url, bill_date, created_at
		FROM bills
		WHERE event_id = $1
		ORDER BY bill_date DESC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := []models.Bill{}
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(&b.ID, &b.EventID, &b.CreatedBy, &b.Description, &b.Category,
			&b.AmountCents, &b.ReceiptURL, &b.BillDate, &b.CreatedAt); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}

	return bills, rows.Err()
}

// Delete returns false when no bill with id belongs to the event
func (r *BillRepository) Delete(ctx context.Context, id string, eventID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1 AND event_id = $2`, id, eventID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *BillRepository) UpdateReceiptURL(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE bills SET receipt_url = $1 WHERE id = $2`, url, id)
	return err
}

func (r *BillRepository) TotalsByCategory(ctx context.Context, eventID int64) ([]models.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount_cents)
		FROM bills
		WHERE event_id = $1
		GROUP BY category
		ORDER BY SUM(amount_cents) DESC, category`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []models.CategoryTotal{}
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.AmountCents); err != nil {
			return nil, err
		}
		totals = append(totals, ct)
	}

	return totals, rows.Err()
}
