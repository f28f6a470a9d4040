package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
)

// JoinCodeConstraint is the unique constraint on communities.join_code.
// Create retries with a fresh code when an insert trips it.
const JoinCodeConstraint = "communities_join_code_key"

// CommunityRepository handles database operations for communities
type CommunityRepository struct {
	db Querier
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db Querier) *CommunityRepository {
	return &CommunityRepository{db: db}
}

// Create inserts a new community and returns its ID
func (r *CommunityRepository) Create(ctx context.Context, community *models.Community) (int64, error) {
	query := `
		INSERT INTO communities (name, description, owner_id, is_private, is_default, branch, join_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		community.Name,
		community.Description,
		community.OwnerID,
		community.IsPrivate,
		community.IsDefault,
		community.Branch,
		community.JoinCode,
	).Scan(&community.ID, &community.CreatedAt, &community.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating community: %w", err)
	}

	return community.ID, nil
}

// GetByID retrieves a community by ID
func (r *CommunityRepository) GetByID(ctx context.Context, id int64) (*models.Community, error) {
	query := `
		SELECT id, name, description, owner_id, is_private, is_default, branch, join_code, created_at, updated_at
		FROM communities
		WHERE id = $1
	`

	var community models.Community
	err := r.db.QueryRow(ctx, query, id).Scan(
		&community.ID,
		&community.Name,
		&community.Description,
		&community.OwnerID,
		&community.IsPrivate,
		&community.IsDefault,
		&community.Branch,
		&community.JoinCode,
		&community.CreatedAt,
		&community.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error retrieving community: %w", err)
	}

	return &community, nil
}

// GetByJoinCode retrieves a community by its invite code
func (r *CommunityRepository) GetByJoinCode(ctx context.Context, joinCode string) (*models.Community, error) {
	query := `
		SELECT id, name, description, owner_id, is_private, is_default, branch, join_code, created_at, updated_at
		FROM communities
		WHERE join_code = $1
	`

	var community models.Community
	err := r.db.QueryRow(ctx, query, joinCode).Scan(
		&community.ID,
		&community.Name,
		&community.Description,
		&community.OwnerID,
		&community.IsPrivate,
		&community.IsDefault,
		&community.Branch,
		&community.JoinCode,
		&community.CreatedAt,
		&community.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvalidJoinCode
		}
		return nil, fmt.Errorf("error retrieving community by join code: %w", err)
	}

	return &community, nil
}

// Update updates the owner-editable community fields
func (r *CommunityRepository) Update(ctx context.Context, community *models.Community) error {
	query := `
		UPDATE communities
		SET name = $1, description = $2, is_private = $3, branch = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		community.Name,
		community.Description,
		community.IsPrivate,
		community.Branch,
		community.ID,
	).Scan(&community.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCommunityNotFound
		}
		return fmt.Errorf("error updating community: %w", err)
	}

	return nil
}

// List retrieves communities visible to the viewer: public ones plus private
// ones the viewer belongs to. Supports search, branch filter and pagination.
func (r *CommunityRepository) List(ctx context.Context, viewerID int64, search, branch *string, page, pageSize int) ([]*models.Community, int64, error) {
	offset := (page - 1) * pageSize

	qb := squirrel.Select(
		"c.id", "c.name", "c.description", "c.owner_id", "c.is_private", "c.is_default",
		"c.branch", "c.join_code", "c.created_at", "c.updated_at",
		"COUNT(*) OVER() AS total_count",
	).
		From("communities c").
		Where(squirrel.Or{
			squirrel.Eq{"c.is_private": false},
			squirrel.Expr("c.id IN (SELECT community_id FROM community_members WHERE user_id = ?)", viewerID),
		}).
		OrderBy("c.created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"c.name": pattern},
			squirrel.ILike{"c.description": pattern},
		})
	}

	if branch != nil && *branch != "" {
		qb = qb.Where("LOWER(c.branch) = LOWER(?)", *branch)
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var communities []*models.Community
	var total int64
	for rows.Next() {
		var community models.Community
		if err := rows.Scan(
			&community.ID,
			&community.Name,
			&community.Description,
			&community.OwnerID,
			&community.IsPrivate,
			&community.IsDefault,
			&community.Branch,
			&community.JoinCode,
			&community.CreatedAt,
			&community.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		communities = append(communities, &community)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return communities, total, nil
}

// ListJoinedByUser retrieves all communities the user is a member of
func (r *CommunityRepository) ListJoinedByUser(ctx context.Context, userID int64) ([]*models.Community, error) {
	query := `
		SELECT c.id, c.name, c.description, c.owner_id, c.is_private, c.is_default,
			c.branch, c.join_code, c.created_at, c.updated_at
		FROM communities c
		JOIN community_members m ON m.community_id = c.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var communities []*models.Community
	for rows.Next() {
		var community models.Community
		if err := rows.Scan(
			&community.ID,
			&community.Name,
			&community.Description,
			&community.OwnerID,
			&community.IsPrivate,
			&community.IsDefault,
			&community.Branch,
			&community.JoinCode,
			&community.CreatedAt,
			&community.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		communities = append(communities, &community)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return communities, nil
}

// ListDefaultsByBranch retrieves the default communities for a branch.
// Matching is case-insensitive, as branch values come from free user input.
func (r *CommunityRepository) ListDefaultsByBranch(ctx context.Context, branch string) ([]*models.Community, error) {
	query := `
		SELECT id, name, description, owner_id, is_private, is_default, branch, join_code, created_at, updated_at
		FROM communities
		WHERE is_default = TRUE AND LOWER(branch) = LOWER($1)
	`

	rows, err := r.db.Query(ctx, query, branch)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var communities []*models.Community
	for rows.Next() {
		var community models.Community
		if err := rows.Scan(
			&community.ID,
			&community.Name,
			&community.Description,
			&community.OwnerID,
			&community.IsPrivate,
			&community.IsDefault,
			&community.Branch,
			&community.JoinCode,
			&community.CreatedAt,
			&community.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		communities = append(communities, &community)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return communities, nil
}
