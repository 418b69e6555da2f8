package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationPlan string

const (
	PlanFree       OrganizationPlan = "free"
	PlanPro        OrganizationPlan = "pro"
	PlanEnterprise OrganizationPlan = "enterprise"
)

type Organization struct {
	ID         string           `gorm:"type:varchar(36);primarykey" json:"id"`
	Name       string           `gorm:"type:varchar(255);not null" json:"name"`
	Domain     string           `gorm:"type:varchar(255)" json:"domain,omitempty"`
	Plan       OrganizationPlan `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`
	MaxMembers int              `gorm:"not null;default:25" json:"max_members"`
	InviteCode string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"invite_code"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Users    []User    `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Projects []Project `gorm:"foreignKey:OrganizationID" json:"projects,omitempty"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
