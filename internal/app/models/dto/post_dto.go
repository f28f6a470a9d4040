package dto

import (
	"time"

	"github.com/campuslink/backend/internal/app/models"
)

// --- Request DTOs ---

// CreatePostRequest represents data for creating a new post
type CreatePostRequest struct {
	Content string `json:"content" binding:"required,max=4000"`
}

// GetPostsRequest represents filter parameters for retrieving posts.
// Posts are returned ascending by creation time.
type GetPostsRequest struct {
	After *time.Time `form:"after,omitempty"`
	Limit int        `form:"limit,default=50" binding:"min=1,max=200"`
}

// --- Response DTOs ---

// PostResponse represents a single community post
type PostResponse struct {
	ID          int64     `json:"id"`
	CommunityID int64     `json:"communityId"`
	AuthorID    int64     `json:"authorId"`
	AuthorName  string    `json:"authorName,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PostListResponse represents an ordered list of posts
type PostListResponse struct {
	Posts []PostResponse `json:"posts"`
}

// ToPostResponse converts a models.Post to PostResponse
func ToPostResponse(post *models.Post) PostResponse {
	resp := PostResponse{
		ID:          post.ID,
		CommunityID: post.CommunityID,
		AuthorID:    post.AuthorID,
		Content:     post.Content,
		CreatedAt:   post.CreatedAt,
	}

	if post.Author != nil {
		resp.AuthorName = post.Author.FirstName + " " + post.Author.LastName
	}

	return resp
}
