package repository

import (
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOrganization lists all projects of an organization
func (r *GormProjectRepository) ListByOrganization(organizationID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at asc").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// CountByOrganization counts the projects of an organization
func (r *GormProjectRepository) CountByOrganization(organizationID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Project{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByOrganization counts the active projects of an organization
func (r *GormProjectRepository) CountActiveByOrganization(organizationID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Project{}).
		Where("organization_id = ? AND status = ?", organizationID, models.ProjectStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete deletes a project and all related data in a transaction
func (r *GormProjectRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Delete all project members
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		// Delete access requests referencing the project
		if err := tx.Where("project_id = ?", id).Delete(&models.AccessRequest{}).Error; err != nil {
			return err
		}

		// Delete project
		if err := tx.Delete(&models.Project{}, "id = ?", id).Error; err != nil {
			return err
		}

		return nil
	})
}

// AddMember adds a member to a project
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.Create(member).Error
}

// UpdateMember updates a project member's role
func (r *GormProjectRepository) UpdateMember(member *models.ProjectMember) error {
	return r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", member.ProjectID, member.UserID).
		Update("role", member.Role).Error
}

// RemoveMember removes a member from a project
func (r *GormProjectRepository) RemoveMember(projectID, userID string) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID string) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(projectID string) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// RemoveMembersByUser removes a user from every project of an organization
func (r *GormProjectRepository) RemoveMembersByUser(organizationID, userID string) error {
	subquery := r.db.Model(&models.Project{}).
		Select("id").
		Where("organization_id = ?", organizationID)

	return r.db.Where("user_id = ? AND project_id IN (?)", userID, subquery).
		Delete(&models.ProjectMember{}).Error
}
