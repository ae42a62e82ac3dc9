package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goalvoice/internal/model"
)

type ProfileRepository interface {
	ByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	Create(ctx context.Context, profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) ByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.GetContext(ctx, &profile, `
		SELECT id, user_id, full_name, phone_number, created_at, updated_at
		FROM profiles WHERE user_id = $1
	`, userID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = profile.CreatedAt
	}

	return r.db.QueryRowxContext(ctx, `
		INSERT INTO profiles (user_id, full_name, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, profile.UserID, profile.FullName, profile.PhoneNumber, profile.CreatedAt, profile.UpdatedAt).Scan(&profile.ID)
}
