package dto

import (
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID         string                  `json:"id"`
	Name       string                  `json:"name"`
	Domain     string                  `json:"domain,omitempty"`
	Plan       models.OrganizationPlan `json:"plan"`
	MaxMembers int                     `json:"max_members"`
	InviteCode string                  `json:"invite_code,omitempty"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO.
// The invite code is only included for callers allowed to share it.
func ToOrganizationDTO(org models.Organization, includeInviteCode bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:         org.ID,
		Name:       org.Name,
		Domain:     org.Domain,
		Plan:       org.Plan,
		MaxMembers: org.MaxMembers,
	}
	if includeInviteCode {
		dto.InviteCode = org.InviteCode
	}
	return dto
}

// SessionDTO represents a session in API responses. The token itself travels
// only in the cookie.
type SessionDTO struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
	Remember  bool      `json:"remember"`
}

// ToSessionDTO converts a Session model to SessionDTO
func ToSessionDTO(session models.Session) SessionDTO {
	return SessionDTO{
		ID:        session.ID,
		ExpiresAt: session.ExpiresAt,
		Remember:  session.Remember,
	}
}

// AuthResponseDTO is the login/registration success payload
type AuthResponseDTO struct {
	User         UserDTO         `json:"user"`
	Organization OrganizationDTO `json:"organization"`
	Session      SessionDTO      `json:"session"`
}
