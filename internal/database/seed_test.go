package database

import (
	"testing"

	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestSeedCreatesDemoAccounts(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Seed(db))

	var org models.Organization
	require.NoError(t, db.Where("invite_code = ?", SeedOrganizationCode).First(&org).Error)
	require.Equal(t, SeedOrganizationName, org.Name)

	expected := map[string]struct {
		password string
		role     models.UserRole
	}{
		SeedAdminEmail:    {SeedAdminPassword, models.RoleAdmin},
		SeedApproverEmail: {SeedApproverPassword, models.RoleApprover},
		SeedMemberEmail:   {SeedMemberPassword, models.RoleMember},
	}

	for email, want := range expected {
		var user models.User
		require.NoError(t, db.Where("email = ?", email).First(&user).Error)
		require.Equal(t, want.role, user.Role)
		require.Equal(t, org.ID, user.OrganizationID)
		require.True(t, user.IsActive)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(want.password)))
	}

	var project models.Project
	require.NoError(t, db.Where("name = ?", SeedProjectName).First(&project).Error)
	require.Equal(t, org.ID, project.OrganizationID)
	require.Equal(t, models.ProjectStatusActive, project.Status)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Seed(db))
	require.NoError(t, Seed(db))

	var orgCount int64
	require.NoError(t, db.Model(&models.Organization{}).Count(&orgCount).Error)
	require.Equal(t, int64(1), orgCount)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.Equal(t, int64(3), userCount)

	for _, email := range []string{SeedAdminEmail, SeedApproverEmail, SeedMemberEmail} {
		var count int64
		require.NoError(t, db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error)
		require.Equal(t, int64(1), count, "email %s", email)
	}

	var projectCount int64
	require.NoError(t, db.Model(&models.Project{}).Count(&projectCount).Error)
	require.Equal(t, int64(1), projectCount)
}
