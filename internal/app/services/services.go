// Package services holds the business logic between the HTTP controllers and
// the repositories. Services own authorization decisions, cross-repository
// flows and cache invalidation; controllers only translate HTTP.
//
// Services defined in this package:
// - AuthService: registration, login, token refresh and revocation
// - ProfileService: own and public profile views
// - CommunityService: community browsing, creation, invite codes, membership
// - PostService: community feed reads, writes and realtime push
// - ProjectService: project browsing, hosting and membership
// - StartupService: startup browsing, founding and membership
// - MembershipService: the caller's cached membership id sets
package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/backend/internal/app/repositories"
	"github.com/campuslink/backend/internal/db"
)

// TxManager runs a function against a repository set bound to a single
// database transaction.
type TxManager interface {
	Run(ctx context.Context, fn func(ctx context.Context, r *repositories.Repositories) error) error
}

type pgxTxManager struct {
	pool  *pgxpool.Pool
	repos *repositories.Repositories
}

// NewTxManager creates a TxManager backed by the connection pool
func NewTxManager(pool *pgxpool.Pool, repos *repositories.Repositories) TxManager {
	return &pgxTxManager{pool: pool, repos: repos}
}

func (m *pgxTxManager) Run(ctx context.Context, fn func(ctx context.Context, r *repositories.Repositories) error) error {
	return db.WithTransaction(ctx, m.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, m.repos.WithTx(tx))
	})
}
