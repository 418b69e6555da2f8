package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/authz"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
	"github.com/harukimoto/knowledge-base-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrForbidden            = errors.New("insufficient permissions")
	ErrMemberNotFound       = errors.New("organization member not found")
	ErrProjectNotFound      = errors.New("project not found")
	ErrRequestNotFound      = errors.New("access request not found")
	ErrRequestNotPending    = errors.New("access request has already been reviewed")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidRequestType   = errors.New("invalid request type")
	ErrCannotRemoveYourself = errors.New("cannot remove yourself from the organization")
)

// OrganizationService provides organization-scoped operations: member
// management, project CRUD and the access-request workflow. Every operation
// takes the acting user and is confined to that user's organization.
type OrganizationService struct {
	users     repository.UserRepository
	orgs      repository.OrganizationRepository
	projects  repository.ProjectRepository
	requests  repository.AccessRequestRepository
	sessions  *SessionManager
	evaluator *authz.Evaluator
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	projects repository.ProjectRepository,
	requests repository.AccessRequestRepository,
	sessions *SessionManager,
	evaluator *authz.Evaluator,
) *OrganizationService {
	return &OrganizationService{
		users:     users,
		orgs:      orgs,
		projects:  projects,
		requests:  requests,
		sessions:  sessions,
		evaluator: evaluator,
	}
}

// Get returns the actor's organization.
func (s *OrganizationService) Get(actor *models.User) (*models.Organization, error) {
	org, err := s.orgs.FindByID(actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}
	return org, nil
}

// ListMembers returns one page of the actor's organization members together
// with the total member count.
func (s *OrganizationService) ListMembers(actor *models.User, params utils.PaginationParams) ([]models.User, int64, error) {
	members, total, err := s.users.ListByOrganization(actor.OrganizationID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

// InviteMemberInput represents parameters to add a member to the organization.
type InviteMemberInput struct {
	Name  string
	Email string
	Role  models.UserRole
}

// InvitedMember is a freshly invited user together with the one-time initial
// password generated for them.
type InvitedMember struct {
	User            *models.User
	InitialPassword string
}

// InviteMember creates a new active user in the actor's organization.
// Requires an admin actor.
func (s *OrganizationService) InviteMember(actor *models.User, input InviteMemberInput) (*InvitedMember, error) {
	if !authz.IsAdmin(actor) {
		return nil, ErrForbidden
	}
	if !models.ValidUserRole(input.Role) || input.Role == models.RoleSuperAdmin {
		return nil, ErrInvalidRole
	}

	email := normalizeEmail(input.Email)
	if _, err := s.users.FindByEmailInOrganization(actor.OrganizationID, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate initial password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:          email,
		Name:           input.Name,
		PasswordHash:   string(hash),
		Role:           input.Role,
		OrganizationID: actor.OrganizationID,
		IsActive:       true,
	}

	if err := s.users.Create(user); err != nil {
		// Concurrent invites can slip past the pre-check and hit the
		// unique (email, organization_id) index instead.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return &InvitedMember{User: user, InitialPassword: password}, nil
}

// UpdateMemberRole changes another member's organization-wide role.
// Requires an admin actor.
func (s *OrganizationService) UpdateMemberRole(actor *models.User, targetID string, role models.UserRole) (*models.User, error) {
	if !authz.IsAdmin(actor) {
		return nil, ErrForbidden
	}
	if !models.ValidUserRole(role) || role == models.RoleSuperAdmin {
		return nil, ErrInvalidRole
	}

	target, err := s.findMember(actor.OrganizationID, targetID)
	if err != nil {
		return nil, err
	}

	target.Role = role
	if err := s.users.Update(target); err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	return target, nil
}

// RemoveMember deletes a member from the organization, cascades their
// project memberships and revokes their live sessions. Requires an admin
// actor.
func (s *OrganizationService) RemoveMember(actor *models.User, targetID string) error {
	if !authz.IsAdmin(actor) {
		return ErrForbidden
	}
	if targetID == actor.ID {
		return ErrCannotRemoveYourself
	}

	target, err := s.findMember(actor.OrganizationID, targetID)
	if err != nil {
		return err
	}

	if err := s.projects.RemoveMembersByUser(actor.OrganizationID, target.ID); err != nil {
		return fmt.Errorf("failed to remove project memberships: %w", err)
	}

	if err := s.users.Delete(target.ID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	if err := s.sessions.DestroyAllForUser(target.ID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	return nil
}

func (s *OrganizationService) findMember(organizationID, userID string) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to find member: %w", err)
	}
	if user.OrganizationID != organizationID {
		return nil, ErrMemberNotFound
	}
	return user, nil
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name          string
	Description   string
	ModelProvider string
	ModelName     string
}

// CreateProject creates a new active project. Requires an admin actor.
func (s *OrganizationService) CreateProject(actor *models.User, input CreateProjectInput) (*models.Project, error) {
	if !s.evaluator.HasPermission(actor, authz.PermProjectCreate, "") {
		return nil, ErrForbidden
	}

	project := &models.Project{
		Name:           input.Name,
		Description:    input.Description,
		Status:         models.ProjectStatusActive,
		OrganizationID: actor.OrganizationID,
		ModelProvider:  input.ModelProvider,
		ModelName:      input.ModelName,
	}

	if err := s.projects.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// GetProject returns one project of the actor's organization. Projects of
// other organizations read as not found rather than forbidden.
func (s *OrganizationService) GetProject(actor *models.User, projectID string) (*models.Project, error) {
	return s.findProject(actor.OrganizationID, projectID)
}

// ListProjects returns all projects of the actor's organization.
func (s *OrganizationService) ListProjects(actor *models.User) ([]models.Project, error) {
	projects, err := s.projects.ListByOrganization(actor.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProjectInput represents updatable project fields; nil means unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *models.ProjectStatus
}

// UpdateProject updates a project. Allowed for organization admins and for
// project-level admins of that project.
func (s *OrganizationService) UpdateProject(actor *models.User, projectID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(actor.OrganizationID, projectID)
	if err != nil {
		return nil, err
	}

	if !s.evaluator.HasPermission(actor, authz.PermProjectUpdate, projectID) {
		return nil, ErrForbidden
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Status != nil {
		switch *input.Status {
		case models.ProjectStatusActive, models.ProjectStatusArchived:
			project.Status = *input.Status
		default:
			return nil, fmt.Errorf("invalid project status: %s", *input.Status)
		}
	}

	if err := s.projects.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject deletes a project, its members and any access requests
// referencing it. Requires an admin actor.
func (s *OrganizationService) DeleteProject(actor *models.User, projectID string) error {
	project, err := s.findProject(actor.OrganizationID, projectID)
	if err != nil {
		return err
	}

	if !s.evaluator.HasPermission(actor, authz.PermProjectDelete, "") {
		return ErrForbidden
	}

	if err := s.projects.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// GetProjectMembers lists the members of a project in the actor's organization.
func (s *OrganizationService) GetProjectMembers(actor *models.User, projectID string) ([]models.ProjectMember, error) {
	if _, err := s.findProject(actor.OrganizationID, projectID); err != nil {
		return nil, err
	}

	members, err := s.projects.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return members, nil
}

// AddProjectMember grants a user a role within one project. Allowed for
// organization admins and project-level admins; adding an existing member
// updates their role.
func (s *OrganizationService) AddProjectMember(actor *models.User, projectID, userID string, role models.ProjectRole) (*models.ProjectMember, error) {
	if _, err := s.findProject(actor.OrganizationID, projectID); err != nil {
		return nil, err
	}

	if !s.evaluator.HasPermission(actor, authz.PermProjectMembersManage, projectID) {
		return nil, ErrForbidden
	}
	if !models.ValidProjectRole(role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.findMember(actor.OrganizationID, userID); err != nil {
		return nil, err
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		AddedAt:   time.Now(),
	}

	if existing, err := s.projects.FindMember(projectID, userID); err == nil {
		// Re-adding only changes the role; the original membership date
		// stays on the row and in the response.
		member.AddedAt = existing.AddedAt
		if err := s.projects.UpdateMember(member); err != nil {
			return nil, fmt.Errorf("failed to update project member: %w", err)
		}
		return member, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project membership: %w", err)
	}

	if err := s.projects.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}

	return member, nil
}

// RemoveProjectMember removes a user's project role. Idempotent.
func (s *OrganizationService) RemoveProjectMember(actor *models.User, projectID, userID string) error {
	if _, err := s.findProject(actor.OrganizationID, projectID); err != nil {
		return err
	}

	if !s.evaluator.HasPermission(actor, authz.PermProjectMembersManage, projectID) {
		return ErrForbidden
	}

	if err := s.projects.RemoveMember(projectID, userID); err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}

	return nil
}

func (s *OrganizationService) findProject(organizationID, projectID string) (*models.Project, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project.OrganizationID != organizationID {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// CreateAccessRequestInput represents parameters for a new access request.
type CreateAccessRequestInput struct {
	ProjectID     string
	RequestType   models.AccessRequestType
	RequestedRole models.UserRole
	Message       string
}

// CreateAccessRequest files a pending request on behalf of the actor.
// Viewers cannot file requests.
func (s *OrganizationService) CreateAccessRequest(actor *models.User, input CreateAccessRequestInput) (*models.AccessRequest, error) {
	if !authz.IsMember(actor) {
		return nil, ErrForbidden
	}
	if !models.ValidAccessRequestType(input.RequestType) {
		return nil, ErrInvalidRequestType
	}
	if input.RequestedRole != "" && !models.ValidUserRole(input.RequestedRole) {
		return nil, ErrInvalidRole
	}
	if input.ProjectID != "" {
		if _, err := s.findProject(actor.OrganizationID, input.ProjectID); err != nil {
			return nil, err
		}
	}

	request := &models.AccessRequest{
		OrganizationID: actor.OrganizationID,
		UserID:         actor.ID,
		ProjectID:      input.ProjectID,
		RequestType:    input.RequestType,
		RequestedRole:  input.RequestedRole,
		Message:        input.Message,
		Status:         models.RequestStatusPending,
	}

	if err := s.requests.Create(request); err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}

	return request, nil
}

// ListAccessRequests returns the organization's requests for approvers and
// the actor's own requests for everyone else.
func (s *OrganizationService) ListAccessRequests(actor *models.User) ([]models.AccessRequest, error) {
	var requests []models.AccessRequest
	var err error
	if authz.IsApprover(actor) {
		requests, err = s.requests.ListByOrganization(actor.OrganizationID)
	} else {
		requests, err = s.requests.ListByUser(actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list access requests: %w", err)
	}
	return requests, nil
}

// ApproveAccessRequest transitions a pending request to approved.
func (s *OrganizationService) ApproveAccessRequest(actor *models.User, requestID, notes string) (*models.AccessRequest, error) {
	return s.reviewAccessRequest(actor, requestID, models.RequestStatusApproved, notes)
}

// RejectAccessRequest transitions a pending request to rejected.
func (s *OrganizationService) RejectAccessRequest(actor *models.User, requestID, notes string) (*models.AccessRequest, error) {
	return s.reviewAccessRequest(actor, requestID, models.RequestStatusRejected, notes)
}

func (s *OrganizationService) reviewAccessRequest(actor *models.User, requestID string, status models.AccessRequestStatus, notes string) (*models.AccessRequest, error) {
	if !authz.IsApprover(actor) {
		return nil, ErrForbidden
	}

	request, err := s.requests.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find access request: %w", err)
	}
	if request.OrganizationID != actor.OrganizationID {
		return nil, ErrRequestNotFound
	}

	// Approved and rejected are terminal; a reviewed request stays reviewed.
	if request.Status != models.RequestStatusPending {
		return nil, ErrRequestNotPending
	}

	now := time.Now()
	request.Status = status
	request.ReviewedAt = &now
	request.ReviewedBy = actor.ID
	request.ReviewNotes = notes

	if err := s.requests.Update(request); err != nil {
		return nil, fmt.Errorf("failed to update access request: %w", err)
	}

	return request, nil
}

// OrganizationStats aggregates counts over the organization's collections.
type OrganizationStats struct {
	TotalMembers    int64 `json:"total_members"`
	TotalProjects   int64 `json:"total_projects"`
	ActiveProjects  int64 `json:"active_projects"`
	PendingRequests int64 `json:"pending_requests"`
}

// Stats returns aggregate counts for the actor's organization. Read-only.
func (s *OrganizationService) Stats(actor *models.User) (*OrganizationStats, error) {
	stats := &OrganizationStats{}

	var err error
	if stats.TotalMembers, err = s.users.CountByOrganization(actor.OrganizationID); err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if stats.TotalProjects, err = s.projects.CountByOrganization(actor.OrganizationID); err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	if stats.ActiveProjects, err = s.projects.CountActiveByOrganization(actor.OrganizationID); err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}
	if stats.PendingRequests, err = s.requests.CountPendingByOrganization(actor.OrganizationID); err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	return stats, nil
}
