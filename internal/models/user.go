package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleAdmin      UserRole = "admin"
	RoleApprover   UserRole = "approver"
	RoleMember     UserRole = "member"
	RoleViewer     UserRole = "viewer"
)

// ValidUserRole reports whether role belongs to the closed role set.
func ValidUserRole(role UserRole) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleApprover, RoleMember, RoleViewer:
		return true
	}
	return false
}

// User rows are removed outright when a member leaves; the unique
// (email, organization_id) index therefore only ever covers live users,
// and a removed member's email can be reused immediately.
type User struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_org_email" json:"email"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	OrganizationID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_users_org_email" json:"organization_id"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Organization Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	ProjectRoles []ProjectMember `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
