// Package authz answers "can this user do X" questions. Every check is a
// total function: unknown permissions, missing users and storage failures
// all evaluate to false, never to an error, so callers can gate behavior
// without error handling.
package authz

import (
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
)

// Permission is a flat capability key. There is no wildcard or inheritance
// beyond the two explicit layers: organization role and project role.
type Permission string

const (
	PermProjectView          Permission = "project:view"
	PermProjectCreate        Permission = "project:create"
	PermProjectUpdate        Permission = "project:update"
	PermProjectDelete        Permission = "project:delete"
	PermProjectContribute    Permission = "project:contribute"
	PermProjectMembersManage Permission = "project:members:manage"
	PermMemberInvite         Permission = "member:invite"
	PermMemberManage         Permission = "member:manage"
	PermRequestCreate        Permission = "request:create"
	PermRequestReview        Permission = "request:review"
	PermOrgManage            Permission = "org:manage"
)

// IsAdmin reports whether the user holds an organization-wide admin role.
func IsAdmin(user *models.User) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		return true
	}
	return false
}

// IsApprover reports whether the user may review access requests.
// Admins are always approvers.
func IsApprover(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleApprover || IsAdmin(user)
}

// IsMember reports whether the user is an authenticated non-viewer.
// Approvers and admins are always members.
func IsMember(user *models.User) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleMember || IsApprover(user)
}

var rolePermissions = map[models.UserRole][]Permission{
	models.RoleViewer: {
		PermProjectView,
	},
	models.RoleMember: {
		PermProjectView,
		PermProjectContribute,
		PermRequestCreate,
	},
	models.RoleApprover: {
		PermProjectView,
		PermProjectContribute,
		PermRequestCreate,
		PermRequestReview,
	},
	models.RoleAdmin: {
		PermProjectView,
		PermProjectCreate,
		PermProjectUpdate,
		PermProjectDelete,
		PermProjectContribute,
		PermProjectMembersManage,
		PermMemberInvite,
		PermMemberManage,
		PermRequestCreate,
		PermRequestReview,
		PermOrgManage,
	},
}

var projectRolePermissions = map[models.ProjectRole][]Permission{
	models.ProjectRoleAdmin: {
		PermProjectView,
		PermProjectContribute,
		PermProjectUpdate,
		PermProjectMembersManage,
	},
	models.ProjectRoleMember: {
		PermProjectView,
		PermProjectContribute,
	},
	models.ProjectRoleViewer: {
		PermProjectView,
	},
}

func init() {
	// super_admin carries everything admin does
	rolePermissions[models.RoleSuperAdmin] = rolePermissions[models.RoleAdmin]
}

// Evaluator resolves permissions that may depend on project membership.
type Evaluator struct {
	projects repository.ProjectRepository
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(projects repository.ProjectRepository) *Evaluator {
	return &Evaluator{projects: projects}
}

// HasPermission reports whether the user holds the permission, either through
// their organization-wide role or, when projectID is given, through their
// role within that project.
func (e *Evaluator) HasPermission(user *models.User, permission Permission, projectID string) bool {
	if user == nil || !user.IsActive {
		return false
	}

	for _, p := range rolePermissions[user.Role] {
		if p == permission {
			return true
		}
	}

	if projectID == "" || e == nil || e.projects == nil {
		return false
	}

	member, err := e.projects.FindMember(projectID, user.ID)
	if err != nil {
		return false
	}

	for _, p := range projectRolePermissions[member.Role] {
		if p == permission {
			return true
		}
	}

	return false
}
