package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/authz"
	apierrors "github.com/harukimoto/knowledge-base-api/internal/errors"
	"github.com/harukimoto/knowledge-base-api/internal/models"
)

// RequireAdmin allows only organization-wide admins through.
// Must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(authz.IsAdmin, "Only organization admins can perform this action")
}

// RequireApprover allows approvers and admins through.
// Must run after RequireAuth.
func RequireApprover() gin.HandlerFunc {
	return requireRole(authz.IsApprover, "Only approvers can perform this action")
}

func requireRole(check func(*models.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := CurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if !check(user) {
			apierrors.Forbidden(c, message)
			c.Abort()
			return
		}

		c.Next()
	}
}
