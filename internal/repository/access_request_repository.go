package repository

import (
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"gorm.io/gorm"
)

// GormAccessRequestRepository is a GORM implementation of AccessRequestRepository
type GormAccessRequestRepository struct {
	db *gorm.DB
}

// NewAccessRequestRepository creates a new AccessRequestRepository
func NewAccessRequestRepository(db *gorm.DB) AccessRequestRepository {
	return &GormAccessRequestRepository{db: db}
}

// Create creates a new access request
func (r *GormAccessRequestRepository) Create(request *models.AccessRequest) error {
	return r.db.Create(request).Error
}

// FindByID finds an access request by ID
func (r *GormAccessRequestRepository) FindByID(id string) (*models.AccessRequest, error) {
	var request models.AccessRequest
	if err := r.db.First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ListByOrganization lists all access requests of an organization
func (r *GormAccessRequestRepository) ListByOrganization(organizationID string) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	if err := r.db.Preload("User").
		Where("organization_id = ?", organizationID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// ListByUser lists all access requests created by a user
func (r *GormAccessRequestRepository) ListByUser(userID string) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Update updates an access request
func (r *GormAccessRequestRepository) Update(request *models.AccessRequest) error {
	return r.db.Save(request).Error
}

// CountPendingByOrganization counts pending requests of an organization
func (r *GormAccessRequestRepository) CountPendingByOrganization(organizationID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.AccessRequest{}).
		Where("organization_id = ? AND status = ?", organizationID, models.RequestStatusPending).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
