package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/constants"
	"github.com/harukimoto/knowledge-base-api/internal/dto"
	apierrors "github.com/harukimoto/knowledge-base-api/internal/errors"
	"github.com/harukimoto/knowledge-base-api/internal/middleware"
	"github.com/harukimoto/knowledge-base-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new account, either founding a new organization or
// joining an existing one by invite code.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name               string `json:"name" binding:"required"`
		Email              string `json:"email" binding:"required,email"`
		Password           string `json:"password" binding:"required"`
		ConfirmPassword    string `json:"confirm_password" binding:"required"`
		OrganizationName   string `json:"organization_name"`
		OrganizationDomain string `json:"organization_domain"`
		InviteCode         string `json:"invite_code"`
		RememberMe         bool   `json:"remember_me"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Register(services.RegisterInput{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		ConfirmPassword:    req.ConfirmPassword,
		OrganizationName:   req.OrganizationName,
		OrganizationDomain: req.OrganizationDomain,
		InviteCode:         req.InviteCode,
		RememberMe:         req.RememberMe,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := saveSessionToken(c, result.Session.Token); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusCreated, toAuthResponse(result))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email      string `json:"email" binding:"required"`
		Password   string `json:"password" binding:"required"`
		RememberMe bool   `json:"remember_me"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(services.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if err := saveSessionToken(c, result.Session.Token); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, toAuthResponse(result))
}

// Logout destroys the current session. Always succeeds, with or without one.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.authService.Logout(middleware.SessionToken(c))

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user with their organization.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	org, err := h.authService.CurrentOrganization(middleware.SessionToken(c))
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}
	if org == nil {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         dto.ToUserDTO(*user),
		"organization": dto.ToOrganizationDTO(*org, false),
	})
}

func toAuthResponse(result *services.AuthResult) dto.AuthResponseDTO {
	return dto.AuthResponseDTO{
		User:         dto.ToUserDTO(*result.User),
		Organization: dto.ToOrganizationDTO(*result.Organization, false),
		Session:      dto.ToSessionDTO(*result.Session),
	}
}

func saveSessionToken(c *gin.Context, token string) error {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyToken, token)
	return session.Save()
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrPasswordMismatch),
		errors.Is(err, services.ErrOrganizationChoice):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.InvalidInviteCode(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrFailedToHashPassword),
		errors.Is(err, services.ErrFailedToCreateUser),
		errors.Is(err, services.ErrFailedToCreateOrg):
		apierrors.InternalError(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
