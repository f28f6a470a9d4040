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

// StartupRepository handles database operations for startups
type StartupRepository struct {
	db Querier
}

// NewStartupRepository creates a new StartupRepository
func NewStartupRepository(db Querier) *StartupRepository {
	return &StartupRepository{db: db}
}

// Create inserts a new startup and returns its ID
func (r *StartupRepository) Create(ctx context.Context, startup *models.Startup) (int64, error) {
	query := `
		INSERT INTO startups (name, description, looking_for, status, founder_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		startup.Name,
		startup.Description,
		startup.LookingFor,
		startup.Status,
		startup.FounderID,
	).Scan(&startup.ID, &startup.CreatedAt, &startup.UpdatedAt)

	if err != nil {
		return 0, fmt.Errorf("error creating startup: %w", err)
	}

	return startup.ID, nil
}

// GetByID retrieves a startup by ID
func (r *StartupRepository) GetByID(ctx context.Context, id int64) (*models.Startup, error) {
	query := `
		SELECT id, name, description, looking_for, status, founder_id, created_at, updated_at
		FROM startups
		WHERE id = $1
	`

	var startup models.Startup
	err := r.db.QueryRow(ctx, query, id).Scan(
		&startup.ID,
		&startup.Name,
		&startup.Description,
		&startup.LookingFor,
		&startup.Status,
		&startup.FounderID,
		&startup.CreatedAt,
		&startup.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStartupNotFound
		}
		return nil, fmt.Errorf("error retrieving startup: %w", err)
	}

	return &startup, nil
}

// Update updates the founder-editable startup fields
func (r *StartupRepository) Update(ctx context.Context, startup *models.Startup) error {
	query := `
		UPDATE startups
		SET name = $1, description = $2, looking_for = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query,
		startup.Name,
		startup.Description,
		startup.LookingFor,
		startup.Status,
		startup.ID,
	).Scan(&startup.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrStartupNotFound
		}
		return fmt.Errorf("error updating startup: %w", err)
	}

	return nil
}

// List retrieves startups with text search, status filter, sort and pagination
func (r *StartupRepository) List(ctx context.Context, search, status *string, sort string, page, pageSize int) ([]*models.Startup, int64, error) {
	offset := (page - 1) * pageSize

	order := "s.created_at DESC"
	if sort == "oldest" {
		order = "s.created_at ASC"
	}

	qb := squirrel.Select(
		"s.id", "s.name", "s.description", "s.looking_for", "s.status",
		"s.founder_id", "s.created_at", "s.updated_at",
		"COUNT(*) OVER() AS total_count",
	).
		From("startups s").
		OrderBy(order).
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	if search != nil && *search != "" {
		pattern := "%" + *search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.ILike{"s.name": pattern},
			squirrel.ILike{"s.description": pattern},
		})
	}

	if status != nil && *status != "" {
		qb = qb.Where(squirrel.Eq{"s.status": *status})
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

	var startups []*models.Startup
	var total int64
	for rows.Next() {
		var startup models.Startup
		if err := rows.Scan(
			&startup.ID,
			&startup.Name,
			&startup.Description,
			&startup.LookingFor,
			&startup.Status,
			&startup.FounderID,
			&startup.CreatedAt,
			&startup.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		startups = append(startups, &startup)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return startups, total, nil
}
