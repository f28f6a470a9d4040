package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/dberrors"
)

// StartupMemberRepository handles database operations for startup memberships
type StartupMemberRepository struct {
	db Querier
}

// NewStartupMemberRepository creates a new StartupMemberRepository
func NewStartupMemberRepository(db Querier) *StartupMemberRepository {
	return &StartupMemberRepository{db: db}
}

// Add inserts a membership row with the given free-text role
func (r *StartupMemberRepository) Add(ctx context.Context, startupID, userID int64, role string) (*models.StartupMember, error) {
	query := `
		INSERT INTO startup_members (startup_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`

	member := &models.StartupMember{StartupID: startupID, UserID: userID, Role: role}
	err := r.db.QueryRow(ctx, query, startupID, userID, role).Scan(&member.ID, &member.JoinedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "startup_members_startup_id_user_id_key") {
			return nil, apperrors.ErrAlreadyMember
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrStartupNotFound
		}
		return nil, fmt.Errorf("error adding startup member: %w", err)
	}

	return member, nil
}

// Remove deletes the caller's own membership row
func (r *StartupMemberRepository) Remove(ctx context.Context, startupID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM startup_members WHERE startup_id = $1 AND user_id = $2`,
		startupID, userID)
	if err != nil {
		return fmt.Errorf("error removing startup member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}
	return nil
}

// IsMember checks whether a user belongs to a startup
func (r *StartupMemberRepository) IsMember(ctx context.Context, startupID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM startup_members WHERE startup_id = $1 AND user_id = $2)`,
		startupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// CountsByStartupIDs returns member counts for multiple startups
func (r *StartupMemberRepository) CountsByStartupIDs(ctx context.Context, startupIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(startupIDs) == 0 {
		return counts, nil
	}

	qb := squirrel.Select("startup_id", "COUNT(*)").
		From("startup_members").
		Where(squirrel.Eq{"startup_id": startupIDs}).
		GroupBy("startup_id").
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
		var startupID int64
		var count int
		if err := rows.Scan(&startupID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[startupID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// ListByStartupID retrieves members of a startup with basic user info
func (r *StartupMemberRepository) ListByStartupID(ctx context.Context, startupID int64) ([]*models.StartupMember, error) {
	query := `
		SELECT m.id, m.startup_id, m.user_id, m.role, m.joined_at,
			u.id, u.email, u.first_name, u.last_name
		FROM startup_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.startup_id = $1
		ORDER BY m.joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, startupID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var members []*models.StartupMember
	for rows.Next() {
		var member models.StartupMember
		var user models.User
		if err := rows.Scan(
			&member.ID,
			&member.StartupID,
			&member.UserID,
			&member.Role,
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

// ListStartupIDsByUser returns the ids of all startups a user belongs to
func (r *StartupMemberRepository) ListStartupIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT startup_id FROM startup_members WHERE user_id = $1 ORDER BY startup_id`,
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
