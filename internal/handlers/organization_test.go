package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harukimoto/knowledge-base-api/internal/authz"
	"github.com/harukimoto/knowledge-base-api/internal/constants"
	"github.com/harukimoto/knowledge-base-api/internal/database"
	"github.com/harukimoto/knowledge-base-api/internal/dto"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
	"github.com/harukimoto/knowledge-base-api/internal/services"
	"github.com/harukimoto/knowledge-base-api/internal/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type organizationTestEnv struct {
	db             *gorm.DB
	handler        *OrganizationHandler
	requestHandler *AccessRequestHandler
	orgService     *services.OrganizationService
}

func setupOrganizationTestEnv(t *testing.T) organizationTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Session{},
		&models.Project{},
		&models.ProjectMember{},
		&models.AccessRequest{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	requestRepo := repository.NewAccessRequestRepository(db)

	sessionManager := services.NewSessionManager(sessionRepo, 24*time.Hour, 720*time.Hour)
	evaluator := authz.NewEvaluator(projectRepo)
	orgService := services.NewOrganizationService(userRepo, orgRepo, projectRepo, requestRepo, sessionManager, evaluator)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return organizationTestEnv{
		db:             db,
		handler:        NewOrganizationHandler(orgService),
		requestHandler: NewAccessRequestHandler(orgService),
		orgService:     orgService,
	}
}

func orgTestContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUser, user)

	return c, w
}

func createHandlerTestOrg(t *testing.T, db *gorm.DB) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name:       "Acme",
		Plan:       models.PlanFree,
		MaxMembers: 25,
		InviteCode: "ACME-CODE-0001",
	}
	require.NoError(t, db.Create(org).Error)
	return org
}

func createHandlerTestUser(t *testing.T, db *gorm.DB, orgID, email string, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:          email,
		Name:           "Test " + string(role),
		PasswordHash:   "hashed",
		Role:           role,
		OrganizationID: orgID,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestOrganizationHandler_GetOrganizationInviteCodeVisibility(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	admin := createHandlerTestUser(t, env.db, org.ID, "admin@acme.test", models.RoleAdmin)
	member := createHandlerTestUser(t, env.db, org.ID, "member@acme.test", models.RoleMember)

	c, w := orgTestContext(http.MethodGet, "/api/organization", nil, admin)
	env.handler.GetOrganization(c)
	require.Equal(t, http.StatusOK, w.Code)

	var adminView dto.OrganizationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adminView))
	require.Equal(t, org.InviteCode, adminView.InviteCode)

	c, w = orgTestContext(http.MethodGet, "/api/organization", nil, member)
	env.handler.GetOrganization(c)
	require.Equal(t, http.StatusOK, w.Code)

	// Non-admins never see the invite code.
	var memberView dto.OrganizationDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &memberView))
	require.Empty(t, memberView.InviteCode)
}

func TestOrganizationHandler_GetStats(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	admin := createHandlerTestUser(t, env.db, org.ID, "admin@acme.test", models.RoleAdmin)

	_, err := env.orgService.CreateProject(admin, services.CreateProjectInput{Name: "Docs"})
	require.NoError(t, err)

	c, w := orgTestContext(http.MethodGet, "/api/organization/stats", nil, admin)
	env.handler.GetStats(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stats services.OrganizationStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Equal(t, int64(1), stats.TotalMembers)
	require.Equal(t, int64(1), stats.TotalProjects)
	require.Equal(t, int64(1), stats.ActiveProjects)
	require.Equal(t, int64(0), stats.PendingRequests)
}

func TestOrganizationHandler_ListMembers(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	admin := createHandlerTestUser(t, env.db, org.ID, "admin@acme.test", models.RoleAdmin)
	createHandlerTestUser(t, env.db, org.ID, "member@acme.test", models.RoleMember)

	c, w := orgTestContext(http.MethodGet, "/api/organization/members", nil, admin)
	env.handler.ListMembers(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Members    []dto.UserDTO            `json:"members"`
		Pagination utils.PaginationResponse `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Members, 2)
	require.Equal(t, int64(2), response.Pagination.Total)
}

func TestOrganizationHandler_InviteMember(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	admin := createHandlerTestUser(t, env.db, org.ID, "admin@acme.test", models.RoleAdmin)

	payload := map[string]string{
		"name":  "New Person",
		"email": "new@acme.test",
		"role":  "member",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := orgTestContext(http.MethodPost, "/api/organization/members", body, admin)
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.InvitedMemberDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "new@acme.test", response.User.Email)
	require.NotEmpty(t, response.InitialPassword)
}

func TestOrganizationHandler_InviteMemberForbidden(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	member := createHandlerTestUser(t, env.db, org.ID, "member@acme.test", models.RoleMember)

	payload := map[string]string{
		"name":  "New Person",
		"email": "new@acme.test",
		"role":  "member",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	c, w := orgTestContext(http.MethodPost, "/api/organization/members", body, member)
	env.handler.InviteMember(c)

	require.Equal(t, http.StatusForbidden, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "FORBIDDEN", response["code"])
}

func TestOrganizationHandler_UpdateMemberRole(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	admin := createHandlerTestUser(t, env.db, org.ID, "admin@acme.test", models.RoleAdmin)
	member := createHandlerTestUser(t, env.db, org.ID, "member@acme.test", models.RoleMember)

	body, err := json.Marshal(map[string]string{"role": "approver"})
	require.NoError(t, err)

	c, w := orgTestContext(http.MethodPatch, "/api/organization/members/"+member.ID+"/role", body, admin)
	c.Params = gin.Params{{Key: "id", Value: member.ID}}
	env.handler.UpdateMemberRole(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleApprover, response.Role)
}

func TestOrganizationHandler_RemoveMemberNotFound(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	admin := createHandlerTestUser(t, env.db, org.ID, "admin@acme.test", models.RoleAdmin)

	c, w := orgTestContext(http.MethodDelete, "/api/organization/members/no-such-user", nil, admin)
	c.Params = gin.Params{{Key: "id", Value: "no-such-user"}}
	env.handler.RemoveMember(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccessRequestHandler_ReviewedRequestConflicts(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	approver := createHandlerTestUser(t, env.db, org.ID, "approver@acme.test", models.RoleApprover)
	member := createHandlerTestUser(t, env.db, org.ID, "member@acme.test", models.RoleMember)

	request, err := env.orgService.CreateAccessRequest(member, services.CreateAccessRequestInput{
		RequestType: models.RequestFeatureAccess,
	})
	require.NoError(t, err)

	_, err = env.orgService.ApproveAccessRequest(approver, request.ID, "")
	require.NoError(t, err)

	c, w := orgTestContext(http.MethodPost, "/api/access-requests/"+request.ID+"/reject", nil, approver)
	c.Params = gin.Params{{Key: "id", Value: request.ID}}
	env.requestHandler.RejectAccessRequest(c)

	require.Equal(t, http.StatusConflict, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "INVALID_STATE", response["code"])
}

func TestAccessRequestHandler_CreateAndList(t *testing.T) {
	env := setupOrganizationTestEnv(t)
	org := createHandlerTestOrg(t, env.db)
	approver := createHandlerTestUser(t, env.db, org.ID, "approver@acme.test", models.RoleApprover)
	member := createHandlerTestUser(t, env.db, org.ID, "member@acme.test", models.RoleMember)

	body, err := json.Marshal(map[string]string{
		"request_type": "role_upgrade",
		"message":      "please",
	})
	require.NoError(t, err)

	c, w := orgTestContext(http.MethodPost, "/api/access-requests", body, member)
	env.requestHandler.CreateAccessRequest(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.AccessRequestDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, models.RequestStatusPending, created.Status)

	// Approvers see every request in the organization.
	c, w = orgTestContext(http.MethodGet, "/api/access-requests", nil, approver)
	env.requestHandler.ListAccessRequests(c)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string][]dto.AccessRequestDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["requests"], 1)
	require.Equal(t, member.ID, response["requests"][0].UserID)
}
