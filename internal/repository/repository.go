package repository

import (
	"time"

	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// CreateWithOrganization creates an organization and its first user
	// within a single transaction.
	CreateWithOrganization(user *models.User, org *models.Organization) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email across organizations
	FindByEmail(email string) (*models.User, error)

	// FindByEmailInOrganization finds a user by email within one organization
	FindByEmailInOrganization(organizationID, email string) (*models.User, error)

	// ListByOrganization lists one page of an organization's users together
	// with the total member count.
	ListByOrganization(organizationID string, params utils.PaginationParams) ([]models.User, int64, error)

	// CountByOrganization counts the users of an organization
	CountByOrganization(organizationID string) (int64, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete permanently removes a user, freeing their email for reuse
	Delete(id string) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id string) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error
}

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(session *models.Session) error

	// FindByToken finds a session by its token
	FindByToken(token string) (*models.Session, error)

	// DeleteByToken deletes a session; deleting an absent token is not an error
	DeleteByToken(token string) error

	// DeleteByUser deletes all sessions belonging to a user
	DeleteByUser(userID string) error

	// DeleteExpired deletes all sessions with expires_at at or before now
	// and returns the number of rows removed.
	DeleteExpired(now time.Time) (int64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id string) (*models.Project, error)

	// ListByOrganization lists all projects of an organization
	ListByOrganization(organizationID string) ([]models.Project, error)

	// CountByOrganization counts the projects of an organization
	CountByOrganization(organizationID string) (int64, error)

	// CountActiveByOrganization counts the active projects of an organization
	CountActiveByOrganization(organizationID string) (int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project together with its members and any access
	// requests referencing it.
	Delete(id string) error

	// AddMember adds a member to a project
	AddMember(member *models.ProjectMember) error

	// UpdateMember updates a project member's role
	UpdateMember(member *models.ProjectMember) error

	// RemoveMember removes a member from a project; removing an absent
	// member is not an error.
	RemoveMember(projectID, userID string) error

	// FindMember finds a specific project member
	FindMember(projectID, userID string) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID string) ([]models.ProjectMember, error)

	// RemoveMembersByUser removes a user from every project of an organization
	RemoveMembersByUser(organizationID, userID string) error
}

// AccessRequestRepository defines the interface for access request data access
type AccessRequestRepository interface {
	// Create creates a new access request
	Create(request *models.AccessRequest) error

	// FindByID finds an access request by ID
	FindByID(id string) (*models.AccessRequest, error)

	// ListByOrganization lists all access requests of an organization
	ListByOrganization(organizationID string) ([]models.AccessRequest, error)

	// ListByUser lists all access requests created by a user
	ListByUser(userID string) ([]models.AccessRequest, error)

	// Update updates an access request
	Update(request *models.AccessRequest) error

	// CountPendingByOrganization counts pending requests of an organization
	CountPendingByOrganization(organizationID string) (int64, error)
}
