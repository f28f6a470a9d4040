package dto

import (
	"time"

	"github.com/campuslink/backend/internal/app/models"
)

// --- Request DTOs ---

// CreateProjectRequest represents project creation data
type CreateProjectRequest struct {
	Title          string   `json:"title" binding:"required,min=3,max=150"`
	Description    string   `json:"description" binding:"required,max=4000"`
	RequiredSkills []string `json:"requiredSkills" binding:"max=20,dive,min=1,max=50"`
	Status         string   `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS COMPLETED"`
}

// UpdateProjectRequest represents project update data, host only
type UpdateProjectRequest struct {
	Title          string   `json:"title" binding:"required,min=3,max=150"`
	Description    string   `json:"description" binding:"required,max=4000"`
	RequiredSkills []string `json:"requiredSkills" binding:"max=20,dive,min=1,max=50"`
	Status         string   `json:"status" binding:"required,oneof=OPEN IN_PROGRESS COMPLETED"`
}

// ProjectFilterRequest represents project list filter parameters
type ProjectFilterRequest struct {
	Search   *string `form:"search,omitempty"`
	Status   *string `form:"status,omitempty" binding:"omitempty,oneof=OPEN IN_PROGRESS COMPLETED"`
	Sort     string  `form:"sort,default=newest" binding:"oneof=newest oldest"`
	Page     int     `form:"page,default=1" binding:"min=1"`
	PageSize int     `form:"pageSize,default=10" binding:"min=1,max=100"`
}

// --- Response DTOs ---

// ProjectMemberResponse represents a member of a project
type ProjectMemberResponse struct {
	UserID      int64     `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// ProjectResponse represents basic project information
type ProjectResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills []string  `json:"requiredSkills"`
	Status         string    `json:"status"`
	HostID         int64     `json:"hostId"`
	MemberCount    int       `json:"memberCount"`
	IsMember       bool      `json:"isMember"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProjectDetailResponse extends ProjectResponse with member details
type ProjectDetailResponse struct {
	ProjectResponse
	Members []ProjectMemberResponse `json:"members,omitempty"`
}

// ProjectListResponse represents a list of projects
type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Pagination PaginationInfo    `json:"pagination"`
}

// ToProjectResponse converts a model to its response form
func ToProjectResponse(p *models.Project, memberCount int, isMember bool) ProjectResponse {
	skills := p.RequiredSkills
	if skills == nil {
		skills = []string{}
	}

	return ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		RequiredSkills: skills,
		Status:         string(p.Status),
		HostID:         p.HostID,
		MemberCount:    memberCount,
		IsMember:       isMember,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
