package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "active"
	ProjectStatusArchived ProjectStatus = "archived"
)

type Project struct {
	ID             string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Name           string         `gorm:"type:varchar(255);not null" json:"name"`
	Description    string         `gorm:"type:text" json:"description"`
	Status         ProjectStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	OrganizationID string         `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	ModelProvider  string         `gorm:"type:varchar(100)" json:"model_provider,omitempty"`
	ModelName      string         `gorm:"type:varchar(100)" json:"model_name,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Members      []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
