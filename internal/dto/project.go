package dto

import (
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Status        models.ProjectStatus `json:"status"`
	ModelProvider string               `json:"model_provider,omitempty"`
	ModelName     string               `json:"model_name,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		Status:        project.Status,
		ModelProvider: project.ModelProvider,
		ModelName:     project.ModelName,
		CreatedAt:     project.CreatedAt,
		UpdatedAt:     project.UpdatedAt,
	}
}

// ToProjectDTOs converts a slice of Project models
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectDTO(project)
	}
	return dtos
}

// ProjectMemberDTO represents a member's role within one project
type ProjectMemberDTO struct {
	User    UserDTO            `json:"user"`
	Role    models.ProjectRole `json:"role"`
	AddedAt time.Time          `json:"added_at"`
}

// ToProjectMemberDTO converts a ProjectMember model to ProjectMemberDTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:    ToUserDTO(member.User),
		Role:    member.Role,
		AddedAt: member.AddedAt,
	}
}

// ToProjectMemberDTOs converts a slice of ProjectMember models
func ToProjectMemberDTOs(members []models.ProjectMember) []ProjectMemberDTO {
	dtos := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToProjectMemberDTO(member)
	}
	return dtos
}
