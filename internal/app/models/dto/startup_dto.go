package dto

import (
	"time"

	"github.com/campuslink/backend/internal/app/models"
)

// --- Request DTOs ---

// CreateStartupRequest represents startup creation data
type CreateStartupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"required,max=4000"`
	LookingFor  string `json:"lookingFor" binding:"max=1000"`
	Status      string `json:"status" binding:"omitempty,oneof=IDEA BUILDING LAUNCHED"`
}

// UpdateStartupRequest represents startup update data, founder only
type UpdateStartupRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=150"`
	Description string `json:"description" binding:"required,max=4000"`
	LookingFor  string `json:"lookingFor" binding:"max=1000"`
	Status      string `json:"status" binding:"required,oneof=IDEA BUILDING LAUNCHED"`
}

// JoinStartupRequest carries the free-text role the user joins with
type JoinStartupRequest struct {
	Role string `json:"role" binding:"required,min=2,max=100"`
}

// StartupFilterRequest represents startup list filter parameters
type StartupFilterRequest struct {
	Search   *string `form:"search,omitempty"`
	Status   *string `form:"status,omitempty" binding:"omitempty,oneof=IDEA BUILDING LAUNCHED"`
	Sort     string  `form:"sort,default=newest" binding:"oneof=newest oldest"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// StartupMemberResponse represents a member of a startup
type StartupMemberResponse struct {
	UserID      int64     `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// StartupResponse represents basic startup information
type StartupResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	LookingFor  string    `json:"lookingFor"`
	Status      string    `json:"status"`
	FounderID   int64     `json:"founderId"`
	MemberCount int       `json:"memberCount"`
	IsMember    bool      `json:"isMember"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StartupDetailResponse extends StartupResponse with member details
type StartupDetailResponse struct {
	StartupResponse
	Members []StartupMemberResponse `json:"members,omitempty"`
}

// StartupListResponse represents a list of startups
type StartupListResponse struct {
	Startups   []StartupResponse `json:"startups"`
	Pagination PaginationInfo    `json:"pagination"`
}

// ToStartupResponse converts a model to its response form
func ToStartupResponse(s *models.Startup, memberCount int, isMember bool) StartupResponse {
	return StartupResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		LookingFor:  s.LookingFor,
		Status:      string(s.Status),
		FounderID:   s.FounderID,
		MemberCount: memberCount,
		IsMember:    isMember,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
