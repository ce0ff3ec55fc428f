package repository

import (
	"context"
	"database/sql"

	"eventro/internal/database"
	"eventro/internal/models"
)

type ProfileRepository struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, first_name, last_name, email, avatar_url, banner_url, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&profile.ID,
		&profile.FirstName,
		&profile.LastName,
		&profile.Email,
		&profile.AvatarURL,
		&profile.BannerURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return profile, err
}

// Upsert creates the profile or updates its name and email
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, first_name, last_name, email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    email = EXCLUDED.email,
		    updated_at = NOW()
		RETURNING avatar_url, banner_url, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.FirstName,
		profile.LastName,
		profile.Email,
	).Scan(&profile.AvatarURL, &profile.BannerURL, &profile.CreatedAt, &profile.UpdatedAt)
}

func (r *ProfileRepository) UpdateAvatarURL(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET avatar_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	return err
}

func (r *ProfileRepository) UpdateBannerURL(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET banner_url = $1, updated_at = NOW() WHERE id = $2`, url, id)
	return err
}
