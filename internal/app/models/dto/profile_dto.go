package dto

import (
	"time"

	"github.com/campuslink/backend/internal/app/models"
)

// UpdateProfileRequest represents profile update data, owner only
type UpdateProfileRequest struct {
	DisplayName    string  `json:"displayName" binding:"required"`
	ContactEmail   *string `json:"contactEmail,omitempty" binding:"omitempty,email"`
	Branch         string  `json:"branch" binding:"required"`
	College        *string `json:"college,omitempty"`
	GraduationYear *int    `json:"graduationYear,omitempty" binding:"omitempty,min=2000,max=2100"`
}

// ProfileResponse represents a user's profile
type ProfileResponse struct {
	UserID            int64     `json:"userId"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	DisplayName       string    `json:"displayName"`
	ContactEmail      *string   `json:"contactEmail,omitempty"`
	Branch            string    `json:"branch"`
	College           *string   `json:"college,omitempty"`
	GraduationYear    *int      `json:"graduationYear,omitempty"`
	Karma             int       `json:"karma"`
	ContributionCount int       `json:"contributionCount"`
	CreatedAt         time.Time `json:"createdAt"`
}

// PublicProfileResponse hides contact details from other users
type PublicProfileResponse struct {
	UserID            int64   `json:"userId"`
	DisplayName       string  `json:"displayName"`
	Branch            string  `json:"branch"`
	College           *string `json:"college,omitempty"`
	GraduationYear    *int    `json:"graduationYear,omitempty"`
	Karma             int     `json:"karma"`
	ContributionCount int     `json:"contributionCount"`
}

// UserBasicResponse represents minimal user information embedded in other responses
type UserBasicResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ToProfileResponse builds a full profile view for the owner
func ToProfileResponse(user *models.User, profile *models.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:            user.ID,
		Email:             user.Email,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		DisplayName:       profile.DisplayName,
		ContactEmail:      profile.ContactEmail,
		Branch:            profile.Branch,
		College:           profile.College,
		GraduationYear:    profile.GraduationYear,
		Karma:             profile.Karma,
		ContributionCount: profile.ContributionCount,
		CreatedAt:         profile.CreatedAt,
	}
}

// ToPublicProfileResponse builds the view other users see
func ToPublicProfileResponse(profile *models.Profile) PublicProfileResponse {
	return PublicProfileResponse{
		UserID:            profile.UserID,
		DisplayName:       profile.DisplayName,
		Branch:            profile.Branch,
		College:           profile.College,
		GraduationYear:    profile.GraduationYear,
		Karma:             profile.Karma,
		ContributionCount: profile.ContributionCount,
	}
}
