package models

import "time"

// Community represents a student community
type Community struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	OwnerID     int64     `json:"ownerId" db:"owner_id"`
	IsPrivate   bool      `json:"isPrivate" db:"is_private"`
	IsDefault   bool      `json:"isDefault" db:"is_default"`
	Branch      *string   `json:"branch,omitempty" db:"branch"`
	JoinCode    string    `json:"-" db:"join_code"` // only revealed to the owner
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Owner   *User              `json:"owner,omitempty"`
	Members []*CommunityMember `json:"members,omitempty"`
}

// CommunityMember represents a user's membership in a community.
// The (community_id, user_id) pair is unique.
type CommunityMember struct {
	ID          int64     `json:"id" db:"id"`
	CommunityID int64     `json:"communityId" db:"community_id"`
	UserID      int64     `json:"userId" db:"user_id"`
	JoinedAt    time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
