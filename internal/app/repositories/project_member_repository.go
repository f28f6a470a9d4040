package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/dberrors"
)

// ProjectMemberRepository handles database operations for project memberships
type ProjectMemberRepository struct {
	db Querier
}

// NewProjectMemberRepository creates a new ProjectMemberRepository
func NewProjectMemberRepository(db Querier) *ProjectMemberRepository {
	return &ProjectMemberRepository{db: db}
}

// Add inserts a membership row with the given role
func (r *ProjectMemberRepository) Add(ctx context.Context, projectID, userID int64, role models.ProjectMemberRole) (*models.ProjectMember, error) {
	query := `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at
	`

	member := &models.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	err := r.db.QueryRow(ctx, query, projectID, userID, role).Scan(&member.ID, &member.JoinedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "project_members_project_id_user_id_key") {
			return nil, apperrors.ErrAlreadyMember
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error adding project member: %w", err)
	}

	return member, nil
}

// Remove deletes the caller's own membership row
func (r *ProjectMemberRepository) Remove(ctx context.Context, projectID, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID)
	if err != nil {
		return fmt.Errorf("error removing project member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotMember
	}
	return nil
}

// IsMember checks whether a user belongs to a project
func (r *ProjectMemberRepository) IsMember(ctx context.Context, projectID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM project_members WHERE project_id = $1 AND user_id = $2)`,
		projectID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return exists, nil
}

// CountsByProjectIDs returns member counts for multiple projects
func (r *ProjectMemberRepository) CountsByProjectIDs(ctx context.Context, projectIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	if len(projectIDs) == 0 {
		return counts, nil
	}

	qb := squirrel.Select("project_id", "COUNT(*)").
		From("project_members").
		Where(squirrel.Eq{"project_id": projectIDs}).
		GroupBy("project_id").
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
		var projectID int64
		var count int
		if err := rows.Scan(&projectID, &count); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		counts[projectID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// ListByProjectID retrieves members of a project with basic user info
func (r *ProjectMemberRepository) ListByProjectID(ctx context.Context, projectID int64) ([]*models.ProjectMember, error) {
	query := `
		SELECT m.id, m.project_id, m.user_id, m.role, m.joined_at,
			u.id, u.email, u.first_name, u.last_name
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var members []*models.ProjectMember
	for rows.Next() {
		var member models.ProjectMember
		var user models.User
		if err := rows.Scan(
			&member.ID,
			&member.ProjectID,
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

// ListProjectIDsByUser returns the ids of all projects a user belongs to
func (r *ProjectMemberRepository) ListProjectIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT project_id FROM project_members WHERE user_id = $1 ORDER BY project_id`,
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
