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

// ProjectHandler coordinates project HTTP handlers.
type ProjectHandler struct {
	orgService *services.OrganizationService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(orgService *services.OrganizationService) *ProjectHandler {
	return &ProjectHandler{
		orgService: orgService,
	}
}

// ListProjects returns all projects of the caller's organization.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.orgService.ListProjects(user)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": dto.ToProjectDTOs(projects),
	})
}

// CreateProject creates a new project.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Name          string `json:"name" binding:"required"`
		Description   string `json:"description"`
		ModelProvider string `json:"model_provider"`
		ModelName     string `json:"model_name"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.orgService.CreateProject(user, services.CreateProjectInput{
		Name:          req.Name,
		Description:   req.Description,
		ModelProvider: req.ModelProvider,
		ModelName:     req.ModelName,
	})
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns one project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.orgService.GetProject(user, c.Param("id"))
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project's name, description or status.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateProjectRequest struct {
		Name        *string               `json:"name"`
		Description *string               `json:"description"`
		Status      *models.ProjectStatus `json:"status"`
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.orgService.UpdateProject(user, c.Param("id"), services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and everything referencing it.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.orgService.DeleteProject(user, c.Param("id")); err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// GetProjectMembers lists the members of a project.
func (h *ProjectHandler) GetProjectMembers(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	members, err := h.orgService.GetProjectMembers(user, c.Param("id"))
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToProjectMemberDTOs(members),
	})
}

// AddProjectMember grants a user a role within the project.
func (h *ProjectHandler) AddProjectMember(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AddMemberRequest struct {
		UserID string             `json:"user_id" binding:"required"`
		Role   models.ProjectRole `json:"role" binding:"required"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.AddProjectMember(user, c.Param("id"), req.UserID, req.Role)
	if err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"project_id": member.ProjectID,
		"user_id":    member.UserID,
		"role":       member.Role,
	})
}

// RemoveProjectMember removes a user's role within the project.
func (h *ProjectHandler) RemoveProjectMember(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.orgService.RemoveProjectMember(user, c.Param("id"), c.Param("user_id")); err != nil {
		respondOrgError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project member removed successfully",
	})
}
