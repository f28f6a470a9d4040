package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// expiredTokenDeleter removes refresh tokens whose expiry has passed.
type expiredTokenDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenCleaner periodically deletes expired refresh tokens so the table
// does not grow without bound.
type TokenCleaner struct {
	tokens   expiredTokenDeleter
	interval time.Duration
	logger   zerolog.Logger
}

// NewTokenCleaner creates a TokenCleaner that sweeps at the given interval
func NewTokenCleaner(tokens expiredTokenDeleter, interval time.Duration, logger zerolog.Logger) *TokenCleaner {
	return &TokenCleaner{
		tokens:   tokens,
		interval: interval,
		logger:   logger,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. Intended to run in its own goroutine.
func (c *TokenCleaner) Run(ctx context.Context) {
	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug().Msg("Token cleanup stopped")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *TokenCleaner) sweep(ctx context.Context) {
	deleted, err := c.tokens.DeleteExpired(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to delete expired refresh tokens")
		return
	}
	if deleted > 0 {
		c.logger.Info().Int64("deleted", deleted).Msg("Expired refresh tokens removed")
	}
}
