package repository

import (
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
	"gorm.io/gorm"
)

// GormSessionRepository is a GORM implementation of SessionRepository
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &GormSessionRepository{db: db}
}

// Create creates a new session
func (r *GormSessionRepository) Create(session *models.Session) error {
	return r.db.Create(session).Error
}

// FindByToken finds a session by its token
func (r *GormSessionRepository) FindByToken(token string) (*models.Session, error) {
	var session models.Session
	if err := r.db.Where("token = ?", token).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeleteByToken deletes a session. Deleting an absent token is not an error.
func (r *GormSessionRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.Session{}).Error
}

// DeleteByUser deletes all sessions belonging to a user
func (r *GormSessionRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// DeleteExpired deletes all sessions with expires_at at or before now
func (r *GormSessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at <= ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
