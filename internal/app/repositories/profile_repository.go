package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db Querier
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db Querier) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts the profile row for a user
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, display_name, contact_email, branch, college, graduation_year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, karma, contribution_count, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.ContactEmail,
		profile.Branch,
		profile.College,
		profile.GraduationYear,
	).Scan(&profile.ID, &profile.Karma, &profile.ContributionCount, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("error creating profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves the profile of a user
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT id, user_id, display_name, contact_email, branch, college, graduation_year,
			karma, contribution_count, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile models.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.DisplayName,
		&profile.ContactEmail,
		&profile.Branch,
		&profile.College,
		&profile.GraduationYear,
		&profile.Karma,
		&profile.ContributionCount,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	return &profile, nil
}

// Update updates the owner-editable profile fields
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, contact_email = $2, branch = $3, college = $4,
			graduation_year = $5, updated_at = NOW()
		WHERE user_id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		profile.DisplayName,
		profile.ContactEmail,
		profile.Branch,
		profile.College,
		profile.GraduationYear,
		profile.UserID,
	).Scan(&profile.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("error updating profile: %w", err)
	}

	return nil
}

// IncrementContributionCount bumps the reputation counter for a user
func (r *ProfileRepository) IncrementContributionCount(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE profiles SET contribution_count = contribution_count + 1, updated_at = NOW() WHERE user_id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("error incrementing contribution count: %w", err)
	}
	return nil
}
