package dto

import (
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
)

// AccessRequestDTO represents an access request in API responses
type AccessRequestDTO struct {
	ID            string                     `json:"id"`
	UserID        string                     `json:"user_id"`
	ProjectID     string                     `json:"project_id,omitempty"`
	RequestType   models.AccessRequestType   `json:"request_type"`
	RequestedRole models.UserRole            `json:"requested_role,omitempty"`
	Message       string                     `json:"message"`
	Status        models.AccessRequestStatus `json:"status"`
	ReviewedAt    *time.Time                 `json:"reviewed_at,omitempty"`
	ReviewedBy    string                     `json:"reviewed_by,omitempty"`
	ReviewNotes   string                     `json:"review_notes,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// ToAccessRequestDTO converts an AccessRequest model to AccessRequestDTO
func ToAccessRequestDTO(request models.AccessRequest) AccessRequestDTO {
	return AccessRequestDTO{
		ID:            request.ID,
		UserID:        request.UserID,
		ProjectID:     request.ProjectID,
		RequestType:   request.RequestType,
		RequestedRole: request.RequestedRole,
		Message:       request.Message,
		Status:        request.Status,
		ReviewedAt:    request.ReviewedAt,
		ReviewedBy:    request.ReviewedBy,
		ReviewNotes:   request.ReviewNotes,
		CreatedAt:     request.CreatedAt,
	}
}

// ToAccessRequestDTOs converts a slice of AccessRequest models
func ToAccessRequestDTOs(requests []models.AccessRequest) []AccessRequestDTO {
	dtos := make([]AccessRequestDTO, len(requests))
	for i, request := range requests {
		dtos[i] = ToAccessRequestDTO(request)
	}
	return dtos
}
