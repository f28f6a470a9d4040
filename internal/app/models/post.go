package models

import "time"

// Post represents a message in a community, ordered by creation time
type Post struct {
	ID          int64     `json:"id" db:"id"`
	CommunityID int64     `json:"communityId" db:"community_id"`
	AuthorID    int64     `json:"authorId" db:"author_id"`
	Content     string    `json:"content" db:"content"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
