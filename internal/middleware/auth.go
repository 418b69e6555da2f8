package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/constants"
	apierrors "github.com/harukimoto/knowledge-base-api/internal/errors"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/services"
)

// RequireAuth resolves the session token carried by the cookie against the
// session store and loads the authenticated user into the context. Missing,
// unknown and expired tokens all read as unauthenticated.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)

		user, err := authService.CurrentUser(token)
		if err != nil {
			apierrors.InternalError(c, "")
			c.Abort()
			return
		}
		if user == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// SessionToken reads the opaque session token from the cookie session.
func SessionToken(c *gin.Context) string {
	session := sessions.Default(c)
	token, _ := session.Get(constants.SessionKeyToken).(string)
	return token
}

// CurrentUser retrieves the authenticated user from context
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
