package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
	"gorm.io/gorm"
)

// ErrSessionInvalid is returned when a token is absent, unknown or expired.
// Callers treat it as "not authenticated", not as a failure.
var ErrSessionInvalid = errors.New("session invalid or expired")

// SessionManager issues and validates login sessions. A session goes
// Created -> Valid -> Expired; logout deletes the record, which is
// equivalent to immediate expiry. Expiry is checked on every read, so an
// expired row is never treated as valid even before the sweep removes it.
type SessionManager struct {
	sessions    repository.SessionRepository
	defaultTTL  time.Duration
	rememberTTL time.Duration
	now         func() time.Time
}

// NewSessionManager creates a new SessionManager. defaultTTL must be below
// rememberTTL; out-of-order values are swapped.
func NewSessionManager(sessions repository.SessionRepository, defaultTTL, rememberTTL time.Duration) *SessionManager {
	if defaultTTL > rememberTTL {
		defaultTTL, rememberTTL = rememberTTL, defaultTTL
	}
	return &SessionManager{
		sessions:    sessions,
		defaultTTL:  defaultTTL,
		rememberTTL: rememberTTL,
		now:         time.Now,
	}
}

// Create issues a new session for the user. remember selects the long TTL.
func (m *SessionManager) Create(userID, organizationID string, remember bool) (*models.Session, error) {
	ttl := m.defaultTTL
	if remember {
		ttl = m.rememberTTL
	}

	session := &models.Session{
		Token:          uuid.NewString(),
		UserID:         userID,
		OrganizationID: organizationID,
		Remember:       remember,
		ExpiresAt:      m.now().Add(ttl),
	}

	if err := m.sessions.Create(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Validate resolves a token to its session. It fails closed: missing,
// unknown and expired tokens all yield ErrSessionInvalid.
func (m *SessionManager) Validate(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}

	session, err := m.sessions.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}

	if session.Expired(m.now()) {
		return nil, ErrSessionInvalid
	}

	return session, nil
}

// Destroy deletes the session for the token. Destroying an absent or
// already-destroyed session is not an error.
func (m *SessionManager) Destroy(token string) error {
	if token == "" {
		return nil
	}
	return m.sessions.DeleteByToken(token)
}

// DestroyAllForUser deletes every session of the user.
func (m *SessionManager) DestroyAllForUser(userID string) error {
	return m.sessions.DeleteByUser(userID)
}

// CleanupExpired removes all expired sessions and returns how many were
// deleted. It is idempotent; reads already fail closed, so the sweep only
// bounds storage growth.
func (m *SessionManager) CleanupExpired() (int64, error) {
	return m.sessions.DeleteExpired(m.now())
}
