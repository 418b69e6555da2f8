package dto

import (
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           models.UserRole `json:"role"`
	OrganizationID string          `json:"organization_id"`
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
		IsActive:       user.IsActive,
		CreatedAt:      user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of User models
func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, user := range users {
		dtos[i] = ToUserDTO(user)
	}
	return dtos
}

// InvitedMemberDTO is returned once when a member is invited; the initial
// password is never retrievable again.
type InvitedMemberDTO struct {
	User            UserDTO `json:"user"`
	InitialPassword string  `json:"initial_password"`
}
