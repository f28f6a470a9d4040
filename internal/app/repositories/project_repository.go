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

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db Querier
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db Querier) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project and returns its ID
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) (int64, error) {
	query := `
		INSERT INTO projects (title, description, required_skills, status, host_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		project.Title,
		project.Description,
		project.RequiredSkills,
		project.Status,
		project.HostID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating project: %w", err)
	}

	return project.ID, nil
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query := `
		SELECT id, title, description, required_skills, status, host_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	var project models.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.RequiredSkills,
		&project.Status,
		&project.HostID,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}

	return &project, nil
}

// Update updates the host-editable project fields
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects
		SET title = $1, description = $2, required_skills = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		project.Title,
		project.Description,
		project.RequiredSkills,
		project.Status,
		project.ID,
	).Scan(&project.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrProjectNotFound
		}
		return fmt.Errorf("error updating project: %w", err)
	}

	return nil
}

// List retrieves projects with text search, status filter, sort and pagination
func (r *ProjectRepository) List(ctx context.Context, search, status *string, sort string, page, pageSize int) ([]*models.Project, int64, error) {
	offset := (page - 1) * pageSize

	order := "p.created_at DESC"
	if sort == "oldest" {
		order = "p.created_at ASC"
	}

	qb := squirrel.Select(
		"p.id", "p.title", "p.description", "p.required_skills", "p.status",
		"p.host_id", "p.created_at", "p.updated_at",
		"COUNT(*) OVER() AS total_count",
	).
		From("projects p").
		OrderBy(order).
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"p.title": pattern},
			squirrel.ILike{"p.description": pattern},
		})
	}

	if status != nil && *status != "" {
		qb = qb.Where(squirrel.Eq{"p.status": *status})
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

	var projects []*models.Project
	var total int64
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.RequiredSkills,
			&project.Status,
			&project.HostID,
			&project.CreatedAt,
			&project.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		projects = append(projects, &project)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return projects, total, nil
}
