package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	ID             string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Token          string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"-"`
	UserID         string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	OrganizationID string    `gorm:"type:varchar(36);not null" json:"organization_id"`
	Remember       bool      `gorm:"not null;default:false" json:"remember"`
	ExpiresAt      time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt      time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the session is no longer valid at the given time.
// Validity is computed on read; a row that has not been swept yet is still
// expired once expires_at has passed.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
