package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/authz"
	"github.com/harukimoto/knowledge-base-api/internal/dto"
	apierrors "github.com/harukimoto/knowledge-base-api/internal/errors"
	"github.com/harukimoto/knowledge-base-api/internal/middleware"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/services"
	"github.com/harukimoto/knowledge-base-api/internal/utils"
)

// OrganizationHandler coordinates organization and member HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService: orgService,
	}
}

// GetOrganization returns the caller's organization. Admins also see the
// invite code.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	org, err := h.orgService.Get(user)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, authz.IsAdmin(user)))
}

// GetStats returns aggregate counts for the caller's organization.
func (h *OrganizationHandler) GetStats(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	stats, err := h.orgService.Stats(user)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListMembers returns one page of the caller's organization members.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	members, total, err := h.orgService.ListMembers(user, params)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToUserDTOs(members),
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// InviteMember creates a new member in the caller's organization.
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type InviteRequest struct {
		Name  string          `json:"name" binding:"required"`
		Email string          `json:"email" binding:"required,email"`
		Role  models.UserRole `json:"role" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invited, err := h.orgService.InviteMember(user, services.InviteMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.InvitedMemberDTO{
		User:            dto.ToUserDTO(*invited.User),
		InitialPassword: invited.InitialPassword,
	})
}

// UpdateMemberRole changes a member's organization-wide role.
func (h *OrganizationHandler) UpdateMemberRole(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateRoleRequest struct {
		Role models.UserRole `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	target, err := h.orgService.UpdateMemberRole(user, c.Param("id"), req.Role)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*target))
}

// RemoveMember removes a member from the organization together with all of
// their project memberships.
func (h *OrganizationHandler) RemoveMember(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.orgService.RemoveMember(user, c.Param("id")); err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

// respondOrgError maps organization service errors onto API responses.
// Shared by the organization, project and access request handlers.
func respondOrgError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrMemberNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRequestNotPending):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidRequestType),
		errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
