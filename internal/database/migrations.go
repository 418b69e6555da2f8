package database

import (
	"fmt"
	"log"

	"github.com/harukimoto/knowledge-base-api/internal/models"
	"gorm.io/gorm"
)

// AddIndexes adds performance-critical indexes beyond what AutoMigrate creates
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model   interface{}
		table   string
		name    string
		columns string
	}{
		// Session lookup and sweep
		{&models.Session{}, "sessions", "idx_sessions_user_id", "user_id"},
		{&models.Session{}, "sessions", "idx_sessions_expires_at", "expires_at"},

		// Project listing per organization
		{&models.Project{}, "projects", "idx_projects_organization_id", "organization_id"},
		{&models.Project{}, "projects", "idx_projects_status", "status"},

		// Project member cascade lookups
		{&models.ProjectMember{}, "project_members", "idx_project_members_user_id", "user_id"},

		// Access request review queues
		{&models.AccessRequest{}, "access_requests", "idx_access_requests_org_status", "organization_id, status"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
