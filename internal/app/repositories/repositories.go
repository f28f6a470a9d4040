package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgxpool.Pool the repositories use. pgx.Tx
// satisfies it too, so a repository set can be rebound to a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository            *UserRepository
	ProfileRepository         *ProfileRepository
	TokenRepository           *TokenRepository
	CommunityRepository       *CommunityRepository
	CommunityMemberRepository *CommunityMemberRepository
	PostRepository            *PostRepository
	ProjectRepository         *ProjectRepository
	ProjectMemberRepository   *ProjectMemberRepository
	StartupRepository         *StartupRepository
	StartupMemberRepository   *StartupMemberRepository
}

// NewRepositories initializes all repositories against the pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return newRepositories(db)
}

// WithTx returns a repository set bound to the given transaction
func (r *Repositories) WithTx(tx pgx.Tx) *Repositories {
	return newRepositories(tx)
}

func newRepositories(db Querier) *Repositories {
	return &Repositories{
		UserRepository:            NewUserRepository(db),
		ProfileRepository:         NewProfileRepository(db),
		TokenRepository:           NewTokenRepository(db),
		CommunityRepository:       NewCommunityRepository(db),
		CommunityMemberRepository: NewCommunityMemberRepository(db),
		PostRepository:            NewPostRepository(db),
		ProjectRepository:         NewProjectRepository(db),
		ProjectMemberRepository:   NewProjectMemberRepository(db),
		StartupRepository:         NewStartupRepository(db),
		StartupMemberRepository:   NewStartupMemberRepository(db),
	}
}
