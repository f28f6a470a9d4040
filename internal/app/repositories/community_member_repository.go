package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/dberrors"
)

// CommunityMemberRepository handles database operations for community memberships
type CommunityMemberRepository struct {
	db Querier
}

// NewCommunityMemberRepository creates a new CommunityMemberRepository
func NewCommunityMemberRepository(db Querier) *CommunityMemberRepository {
	return &CommunityMemberRepository{db: db}
}

// Add inserts a membership row. A duplicate (community, user) pair surfaces
// as ErrAlreadyMember, never as a second row.
func (r *CommunityMemberRepository) Add(ctx context.Context, communityID, userID int64) (*models.CommunityMember, error) {
	query := `
		INSERT INTO community_members (community_id, user_id)
		VALUES ($1, $2)
		RETURNING id, joined_at
	`

	member := &models.CommunityMember{CommunityID: communityID, UserID: userID}
	err := r.db.QueryRow(ctx, query, communityID, userID).Scan(&member.ID, &member.JoinedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "community_members_community_id_user_id_key") {
			return nil, apperrors.ErrAlreadyMember
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error adding community member: %w", err)
	}

	return member, nil
}

// Remove deletes the caller's own membership row
func (r *CommunityMemberRepository) Remove(ctx context.Context, communityID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`,
		communityID, userID)
	if err != nil {
		return fmt.Errorf("error removing community member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}
	return nil
}

// IsMember checks whether a user belongs to a community
func (r *CommunityMemberRepository) IsMember(ctx context.Context, communityID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)`,
		communityID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// CountByCommunityID returns the number of members in a community
func (r *CommunityMemberRepository) CountByCommunityID(ctx context.Context, communityID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM community_members WHERE community_id = $1`,
		communityID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting members: %w", err)
	}
	return count, nil
}

// CountsByCommunityIDs returns member counts for multiple communities
func (r *CommunityMemberRepository) CountsByCommunityIDs(ctx context.Context, communityIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(communityIDs) == 0 {
		return counts, nil
	}

	qb := squirrel.Select("community_id", "COUNT(*)").
		From("community_members").
		Where(squirrel.Eq{"community_id": communityIDs}).
		GroupBy("community_id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var communityID int64
		var count int
		if err := rows.Scan(&communityID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[communityID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// ListByCommunityID retrieves members of a community with their display names
func (r *CommunityMemberRepository) ListByCommunityID(ctx context.Context, communityID int64) ([]*models.CommunityMember, error) {
	query := `
		SELECT m.id, m.community_id, m.user_id, m.joined_at,
			u.id, u.email, u.first_name, u.last_name
		FROM community_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.community_id = $1
		ORDER BY m.joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, communityID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var members []*models.CommunityMember
	for rows.Next() {
		var member models.CommunityMember
		var user models.User
		if err := rows.Scan(
			&member.ID,
			&member.CommunityID,
			&member.UserID,
			&member.JoinedAt,
			&user.ID,
			&user.Email,
			&user.FirstName,
			&user.LastName,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		member.User = &user
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return members, nil
}

// ListCommunityIDsByUser returns the ids of all communities a user belongs to
func (r *CommunityMemberRepository) ListCommunityIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT community_id FROM community_members WHERE user_id = $1 ORDER BY community_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return ids, nil
}
