package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Email       string     `json:"email" db:"email" example:"user@college.edu"`
	Password    string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related entities
	Profile *Profile `json:"profile,omitempty"`
}

// Profile defines the per-user profile row created at registration
type Profile struct {
	ID                int64     `json:"id" db:"id"`
	UserID            int64     `json:"userId" db:"user_id"`
	DisplayName       string    `json:"displayName" db:"display_name"`
	ContactEmail      *string   `json:"contactEmail,omitempty" db:"contact_email"`
	Branch            string    `json:"branch" db:"branch"`
	College           *string   `json:"college,omitempty" db:"college"`
	GraduationYear    *int      `json:"graduationYear,omitempty" db:"graduation_year"`
	Karma             int       `json:"karma" db:"karma"`
	ContributionCount int       `json:"contributionCount" db:"contribution_count"`
	CreatedAt         time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}
