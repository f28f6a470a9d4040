package models

import "time"

// StartupStatus represents the lifecycle state of a startup
type StartupStatus string

const (
	StartupStatusIdea     StartupStatus = "IDEA"
	StartupStatusBuilding StartupStatus = "BUILDING"
	StartupStatusLaunched StartupStatus = "LAUNCHED"
)

// Startup represents a student startup looking for teammates
type Startup struct {
	ID          int64         `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	LookingFor  string        `json:"lookingFor" db:"looking_for"`
	Status      StartupStatus `json:"status" db:"status"`
	FounderID   int64         `json:"founderId" db:"founder_id"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`

	// Related entities
	Founder *User            `json:"founder,omitempty"`
	Members []*StartupMember `json:"members,omitempty"`
}

// StartupMember represents a user's membership in a startup with a free-text
// role. The (startup_id, user_id) pair is unique.
type StartupMember struct {
	ID        int64     `json:"id" db:"id"`
	StartupID int64     `json:"startupId" db:"startup_id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	JoinedAt  time.Time `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
