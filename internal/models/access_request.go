package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessRequestType string

const (
	RequestProjectAccess  AccessRequestType = "project_access"
	RequestModelKeyAccess AccessRequestType = "model_key_access"
	RequestRoleUpgrade    AccessRequestType = "role_upgrade"
	RequestFeatureAccess  AccessRequestType = "feature_access"
)

// ValidAccessRequestType reports whether t belongs to the closed request type set.
func ValidAccessRequestType(t AccessRequestType) bool {
	switch t {
	case RequestProjectAccess, RequestModelKeyAccess, RequestRoleUpgrade, RequestFeatureAccess:
		return true
	}
	return false
}

type AccessRequestStatus string

const (
	RequestStatusPending  AccessRequestStatus = "pending"
	RequestStatusApproved AccessRequestStatus = "approved"
	RequestStatusRejected AccessRequestStatus = "rejected"
)

// AccessRequest moves one way: pending -> approved|rejected. Approved and
// rejected are terminal; a reviewed request is never reviewed again.
type AccessRequest struct {
	ID             string              `gorm:"type:varchar(36);primarykey" json:"id"`
	OrganizationID string              `gorm:"type:varchar(36);not null;index" json:"organization_id"`
	UserID         string              `gorm:"type:varchar(36);not null;index" json:"user_id"`
	ProjectID      string              `gorm:"type:varchar(36);index" json:"project_id,omitempty"`
	RequestType    AccessRequestType   `gorm:"type:varchar(30);not null" json:"request_type"`
	RequestedRole  UserRole            `gorm:"type:varchar(20)" json:"requested_role,omitempty"`
	Message        string              `gorm:"type:text" json:"message"`
	Status         AccessRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewedAt     *time.Time          `json:"reviewed_at,omitempty"`
	ReviewedBy     string              `gorm:"type:varchar(36)" json:"reviewed_by,omitempty"`
	ReviewNotes    string              `gorm:"type:text" json:"review_notes,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`

	// Relations
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

func (r *AccessRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
