package dto

import (
	"time"

	"github.com/campuslink/backend/internal/app/models"
)

// --- Request DTOs ---

// CreateCommunityRequest represents community creation data
type CreateCommunityRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"max=2000"`
	IsPrivate   bool    `json:"isPrivate"`
	Branch      *string `json:"branch,omitempty"`
}

// UpdateCommunityRequest represents community update data, owner only
type UpdateCommunityRequest struct {
	Name        string  `json:"name" binding:"required,min=3,max=100"`
	Description string  `json:"description" binding:"max=2000"`
	IsPrivate   bool    `json:"isPrivate"`
	Branch      *string `json:"branch,omitempty"`
}

// JoinByCodeRequest joins a community via its invite code
type JoinByCodeRequest struct {
	JoinCode string `json:"joinCode" binding:"required,len=8"`
}

// CommunityFilterRequest represents community filter parameters
type CommunityFilterRequest struct {
	Search   *string `form:"search,omitempty"`
	Branch   *string `form:"branch,omitempty"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// CommunityResponse represents basic community information. JoinCode is set
// only when the caller owns the community.
type CommunityResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	IsPrivate   bool      `json:"isPrivate"`
	IsDefault   bool      `json:"isDefault"`
	Branch      *string   `json:"branch,omitempty"`
	JoinCode    string    `json:"joinCode,omitempty"`
	MemberCount int       `json:"memberCount"`
	IsMember    bool      `json:"isMember"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CommunityMemberResponse represents a member of a community
type CommunityMemberResponse struct {
	UserID      int64     `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// CommunityDetailResponse extends CommunityResponse with member details
type CommunityDetailResponse struct {
	CommunityResponse
	Members []CommunityMemberResponse `json:"members,omitempty"`
}

// CommunityListResponse represents a list of communities
type CommunityListResponse struct {
	Communities []CommunityResponse `json:"communities"`
	Pagination  PaginationInfo      `json:"pagination"`
}

// ToCommunityResponse converts a model to its response form.
// The join code is included only for the owner.
func ToCommunityResponse(c *models.Community, memberCount int, callerID int64, isMember bool) CommunityResponse {
	resp := CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		IsPrivate:   c.IsPrivate,
		IsDefault:   c.IsDefault,
		Branch:      c.Branch,
		MemberCount: memberCount,
		IsMember:    isMember,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}

	if c.OwnerID == callerID {
		resp.JoinCode = c.JoinCode
	}

	return resp
}
