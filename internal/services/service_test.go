package services

import (
	"testing"
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/authz"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db             *gorm.DB
	users          repository.UserRepository
	orgs           repository.OrganizationRepository
	projects       repository.ProjectRepository
	requests       repository.AccessRequestRepository
	sessionManager *SessionManager
	authService    *AuthService
	orgService     *OrganizationService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Session{},
		&models.Project{},
		&models.ProjectMember{},
		&models.AccessRequest{},
	)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	orgs := repository.NewOrganizationRepository(db)
	sessions := repository.NewSessionRepository(db)
	projects := repository.NewProjectRepository(db)
	requests := repository.NewAccessRequestRepository(db)

	sessionManager := NewSessionManager(sessions, 24*time.Hour, 720*time.Hour)
	evaluator := authz.NewEvaluator(projects)
	authService := NewAuthService(users, orgs, sessionManager)
	orgService := NewOrganizationService(users, orgs, projects, requests, sessionManager, evaluator)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return serviceTestEnv{
		db:             db,
		users:          users,
		orgs:           orgs,
		projects:       projects,
		requests:       requests,
		sessionManager: sessionManager,
		authService:    authService,
		orgService:     orgService,
	}
}

func createTestOrganization(t *testing.T, db *gorm.DB, name, inviteCode string) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name:       name,
		Plan:       models.PlanFree,
		MaxMembers: 25,
		InviteCode: inviteCode,
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func createTestUser(t *testing.T, db *gorm.DB, orgID, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:          email,
		Name:           "Test " + string(role),
		PasswordHash:   "hashed",
		Role:           role,
		OrganizationID: orgID,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, orgID, name string) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:           name,
		Status:         models.ProjectStatusActive,
		OrganizationID: orgID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}
