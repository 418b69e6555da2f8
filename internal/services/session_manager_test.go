package services

import (
	"testing"
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_RememberOutlivesDefault(t *testing.T) {
	env := setupServiceTestEnv(t)

	short, err := env.sessionManager.Create("user-1", "org-1", false)
	require.NoError(t, err)

	long, err := env.sessionManager.Create("user-1", "org-1", true)
	require.NoError(t, err)

	require.True(t, short.ExpiresAt.After(time.Now()))
	require.True(t, long.ExpiresAt.After(short.ExpiresAt))
	require.False(t, short.Remember)
	require.True(t, long.Remember)
}

func TestSessionManager_ValidateRoundTrip(t *testing.T) {
	env := setupServiceTestEnv(t)

	created, err := env.sessionManager.Create("user-1", "org-1", false)
	require.NoError(t, err)

	session, err := env.sessionManager.Validate(created.Token)
	require.NoError(t, err)
	require.Equal(t, created.ID, session.ID)
	require.Equal(t, "user-1", session.UserID)
	require.Equal(t, "org-1", session.OrganizationID)
}

func TestSessionManager_ValidateFailsClosed(t *testing.T) {
	env := setupServiceTestEnv(t)

	_, err := env.sessionManager.Validate("")
	require.ErrorIs(t, err, ErrSessionInvalid)

	_, err = env.sessionManager.Validate("no-such-token")
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionManager_ExpiredSessionInvalidBeforeSweep(t *testing.T) {
	env := setupServiceTestEnv(t)

	created, err := env.sessionManager.Create("user-1", "org-1", false)
	require.NoError(t, err)

	// Expire the row without running any cleanup.
	err = env.db.Model(&models.Session{}).
		Where("token = ?", created.Token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)

	_, err = env.sessionManager.Validate(created.Token)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionManager_DestroyIsIdempotent(t *testing.T) {
	env := setupServiceTestEnv(t)

	created, err := env.sessionManager.Create("user-1", "org-1", false)
	require.NoError(t, err)

	require.NoError(t, env.sessionManager.Destroy(created.Token))
	require.NoError(t, env.sessionManager.Destroy(created.Token))
	require.NoError(t, env.sessionManager.Destroy("never-existed"))
	require.NoError(t, env.sessionManager.Destroy(""))

	_, err = env.sessionManager.Validate(created.Token)
	require.ErrorIs(t, err, ErrSessionInvalid)
}

func TestSessionManager_CleanupRemovesOnlyExpired(t *testing.T) {
	env := setupServiceTestEnv(t)

	expired, err := env.sessionManager.Create("user-1", "org-1", false)
	require.NoError(t, err)
	live, err := env.sessionManager.Create("user-2", "org-1", false)
	require.NoError(t, err)

	err = env.db.Model(&models.Session{}).
		Where("token = ?", expired.Token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error
	require.NoError(t, err)

	removed, err := env.sessionManager.CleanupExpired()
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)

	// Idempotent: a second sweep removes nothing.
	removed, err = env.sessionManager.CleanupExpired()
	require.NoError(t, err)
	require.Equal(t, int64(0), removed)

	_, err = env.sessionManager.Validate(live.Token)
	require.NoError(t, err)
}
