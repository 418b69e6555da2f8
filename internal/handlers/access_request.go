package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/dto"
	apierrors "github.com/harukimoto/knowledge-base-api/internal/errors"
	"github.com/harukimoto/knowledge-base-api/internal/middleware"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/services"
)

// AccessRequestHandler coordinates access-request HTTP handlers.
type AccessRequestHandler struct {
	orgService *services.OrganizationService
}

// NewAccessRequestHandler creates a new AccessRequestHandler.
func NewAccessRequestHandler(orgService *services.OrganizationService) *AccessRequestHandler {
	return &AccessRequestHandler{
		orgService: orgService,
	}
}

// ListAccessRequests returns the organization's requests for approvers and
// the caller's own requests otherwise.
func (h *AccessRequestHandler) ListAccessRequests(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	requests, err := h.orgService.ListAccessRequests(user)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": dto.ToAccessRequestDTOs(requests),
	})
}

// CreateAccessRequest files a pending access request for the caller.
func (h *AccessRequestHandler) CreateAccessRequest(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateRequest struct {
		ProjectID     string                   `json:"project_id"`
		RequestType   models.AccessRequestType `json:"request_type" binding:"required"`
		RequestedRole models.UserRole          `json:"requested_role"`
		Message       string                   `json:"message"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	request, err := h.orgService.CreateAccessRequest(user, services.CreateAccessRequestInput{
		ProjectID:     req.ProjectID,
		RequestType:   req.RequestType,
		RequestedRole: req.RequestedRole,
		Message:       req.Message,
	})
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccessRequestDTO(*request))
}

// ApproveAccessRequest transitions a pending request to approved.
func (h *AccessRequestHandler) ApproveAccessRequest(c *gin.Context) {
	h.review(c, h.orgService.ApproveAccessRequest)
}

// RejectAccessRequest transitions a pending request to rejected.
func (h *AccessRequestHandler) RejectAccessRequest(c *gin.Context) {
	h.review(c, h.orgService.RejectAccessRequest)
}

func (h *AccessRequestHandler) review(c *gin.Context, fn func(*models.User, string, string) (*models.AccessRequest, error)) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type ReviewRequest struct {
		Notes string `json:"notes"`
	}

	var req ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
	}

	request, err := fn(user, c.Param("id"), req.Notes)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccessRequestDTO(*request))
}
