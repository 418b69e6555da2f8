package repository

import (
	"errors"
	"fmt"

	"github.com/harukimoto/knowledge-base-api/internal/database"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateUser is returned when creating a user fails inside the registration transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateOrganization is returned when creating an organization fails inside the registration transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// CreateWithOrganization creates the organization and its first user atomically.
func (r *GormUserRepository) CreateWithOrganization(user *models.User, org *models.Organization) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}

		user.OrganizationID = org.ID

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email across organizations
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmailInOrganization finds a user by email within one organization
func (r *GormUserRepository) FindByEmailInOrganization(organizationID, email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("organization_id = ? AND email = ?", organizationID, email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByOrganization lists one page of an organization's users together with
// the total member count.
func (r *GormUserRepository) ListByOrganization(organizationID string, params utils.PaginationParams) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{}).Where("organization_id = ?", organizationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at asc").
		Scopes(database.Paginate(params)).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountByOrganization counts the users of an organization
func (r *GormUserRepository) CountByOrganization(organizationID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete permanently removes a user, freeing their email for reuse
func (r *GormUserRepository) Delete(id string) error {
	return r.db.Delete(&models.User{}, "id = ?", id).Error
}
