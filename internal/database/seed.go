package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Demo accounts created on first run. The login UI relies on these literal
// credentials, so they are part of the observable contract.
const (
	SeedOrganizationName = "Demo Organization"
	SeedOrganizationCode = "DEMO-ORG-0001"

	SeedAdminEmail    = "admin@example.com"
	SeedAdminPassword = "admin123"

	SeedApproverEmail    = "approver@example.com"
	SeedApproverPassword = "approver123"

	SeedMemberEmail    = "member@example.com"
	SeedMemberPassword = "member123"

	SeedProjectName = "Getting Started"
)

type seedUser struct {
	email    string
	name     string
	password string
	role     models.UserRole
}

// Seed populates the demo organization and its three demo accounts. It is
// idempotent: running it again creates nothing new.
func Seed(db *gorm.DB) error {
	org, err := seedOrganization(db)
	if err != nil {
		return err
	}

	users := []seedUser{
		{SeedAdminEmail, "Demo Admin", SeedAdminPassword, models.RoleAdmin},
		{SeedApproverEmail, "Demo Approver", SeedApproverPassword, models.RoleApprover},
		{SeedMemberEmail, "Demo Member", SeedMemberPassword, models.RoleMember},
	}

	var admin *models.User
	for _, su := range users {
		user, err := seedAccount(db, org.ID, su)
		if err != nil {
			return err
		}
		if su.role == models.RoleAdmin {
			admin = user
		}
	}

	if err := seedProject(db, org.ID, admin); err != nil {
		return err
	}

	return nil
}

func seedOrganization(db *gorm.DB) (*models.Organization, error) {
	var org models.Organization
	err := db.Where("invite_code = ?", SeedOrganizationCode).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up seed organization: %w", err)
	}

	org = models.Organization{
		Name:       SeedOrganizationName,
		Domain:     "example.com",
		Plan:       models.PlanFree,
		MaxMembers: 25,
		InviteCode: SeedOrganizationCode,
	}
	if err := db.Create(&org).Error; err != nil {
		return nil, fmt.Errorf("failed to create seed organization: %w", err)
	}

	log.Printf("Seeded organization %q", org.Name)
	return &org, nil
}

func seedAccount(db *gorm.DB, orgID string, su seedUser) (*models.User, error) {
	var user models.User
	err := db.Where("organization_id = ? AND email = ?", orgID, su.email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up seed user %s: %w", su.email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	user = models.User{
		Email:          su.email,
		Name:           su.name,
		PasswordHash:   string(hash),
		Role:           su.role,
		OrganizationID: orgID,
		IsActive:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create seed user %s: %w", su.email, err)
	}

	log.Printf("Seeded user %s (%s)", su.email, su.role)
	return &user, nil
}

func seedProject(db *gorm.DB, orgID string, admin *models.User) error {
	var project models.Project
	err := db.Where("organization_id = ? AND name = ?", orgID, SeedProjectName).First(&project).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up seed project: %w", err)
	}

	project = models.Project{
		Name:           SeedProjectName,
		Description:    "Sample project created with the demo organization",
		Status:         models.ProjectStatusActive,
		OrganizationID: orgID,
	}
	if err := db.Create(&project).Error; err != nil {
		return fmt.Errorf("failed to create seed project: %w", err)
	}

	if admin != nil {
		member := models.ProjectMember{
			ProjectID: project.ID,
			UserID:    admin.ID,
			Role:      models.ProjectRoleAdmin,
			AddedAt:   time.Now(),
		}
		if err := db.Create(&member).Error; err != nil {
			return fmt.Errorf("failed to add seed project member: %w", err)
		}
	}

	log.Printf("Seeded project %q", SeedProjectName)
	return nil
}
