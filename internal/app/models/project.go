package models

import "time"

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "OPEN"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusCompleted  ProjectStatus = "COMPLETED"
)

// ProjectMemberRole distinguishes the host from participants
type ProjectMemberRole string

const (
	ProjectRoleHost        ProjectMemberRole = "HOST"
	ProjectRoleParticipant ProjectMemberRole = "PARTICIPANT"
)

// Project represents a student project looking for collaborators
type Project struct {
	ID             int64         `json:"id" db:"id"`
	Title          string        `json:"title" db:"title"`
	Description    string        `json:"description" db:"description"`
	RequiredSkills []string      `json:"requiredSkills" db:"required_skills"`
	Status         ProjectStatus `json:"status" db:"status"`
	HostID         int64         `json:"hostId" db:"host_id"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`

	// Related entities
	Host    *User            `json:"host,omitempty"`
	Members []*ProjectMember `json:"members,omitempty"`
}

// ProjectMember represents a user's membership in a project.
// The (project_id, user_id) pair is unique.
type ProjectMember struct {
	ID        int64             `json:"id" db:"id"`
	ProjectID int64             `json:"projectId" db:"project_id"`
	UserID    int64             `json:"userId" db:"user_id"`
	Role      ProjectMemberRole `json:"role" db:"role"`
	JoinedAt  time.Time         `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
