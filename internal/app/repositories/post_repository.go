package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/campuslink/backend/internal/app/models"
	"github.com/campuslink/backend/internal/pkg/apperrors"
	"github.com/campuslink/backend/internal/pkg/dberrors"
)

// PostRepository handles database operations for community posts
type PostRepository struct {
	db Querier
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db Querier) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post and returns its ID
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (community_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		post.CommunityID,
		post.AuthorID,
		post.Content,
	).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrCommunityNotFound
		}
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return post.ID, nil
}

// ListByCommunity retrieves posts for a community ordered by creation time
// ascending. The optional after parameter resumes from a point in time.
func (r *PostRepository) ListByCommunity(ctx context.Context, communityID int64, after *time.Time, limit int) ([]*models.Post, error) {
	qb := squirrel.Select(
		"p.id", "p.community_id", "p.author_id", "p.content", "p.created_at",
		"u.id", "u.email", "u.first_name", "u.last_name",
	).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		Where(squirrel.Eq{"p.community_id": communityID}).
		OrderBy("p.created_at ASC", "p.id ASC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	if after != nil {
		qb = qb.Where(squirrel.Gt{"p.created_at": *after})
	}

	sql, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		var post models.Post
		var author models.User
		if err := rows.Scan(
			&post.ID,
			&post.CommunityID,
			&post.AuthorID,
			&post.Content,
			&post.CreatedAt,
			&author.ID,
			&author.Email,
			&author.FirstName,
			&author.LastName,
		); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		post.Author = &author
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return posts, nil
}
