package models

import "time"

// ProjectRole is a user's role within one project, layered on top of and
// independent from their organization-wide role.
type ProjectRole string

const (
	ProjectRoleAdmin  ProjectRole = "admin"
	ProjectRoleMember ProjectRole = "member"
	ProjectRoleViewer ProjectRole = "viewer"
)

// ValidProjectRole reports whether role belongs to the closed project role set.
func ValidProjectRole(role ProjectRole) bool {
	switch role {
	case ProjectRoleAdmin, ProjectRoleMember, ProjectRoleViewer:
		return true
	}
	return false
}

type ProjectMember struct {
	ProjectID string      `gorm:"type:varchar(36);primarykey" json:"project_id"`
	UserID    string      `gorm:"type:varchar(36);primarykey" json:"user_id"`
	Role      ProjectRole `gorm:"type:varchar(20);not null" json:"role"`
	AddedAt   time.Time   `json:"added_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
