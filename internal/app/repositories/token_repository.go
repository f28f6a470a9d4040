package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campuslink/backend/internal/pkg/apperrors"
)

// RefreshToken is a persisted refresh token row
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// TokenRepository handles database operations for refresh tokens
type TokenRepository struct {
	db Querier
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db Querier) *TokenRepository {
	return &TokenRepository{db: db}
}

// Save persists a refresh token for a user
func (r *TokenRepository) Save(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, userID, token, expiresAt); err != nil {
		return fmt.Errorf("error saving refresh token: %w", err)
	}

	return nil
}

// Find retrieves a refresh token by its value
func (r *TokenRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token = $1
	`

	var rt RefreshToken
	err := r.db.QueryRow(ctx, query, token).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.Revoked,
		&rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving refresh token: %w", err)
	}

	return &rt, nil
}

// Revoke marks a refresh token as revoked
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	tag, err := r.db.Exec(ctx, `UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("error revoking refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// DeleteExpired removes tokens whose expiry has passed
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
