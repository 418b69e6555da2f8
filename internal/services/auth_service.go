package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/harukimoto/knowledge-base-api/internal/constants"
	"github.com/harukimoto/knowledge-base-api/internal/models"
	"github.com/harukimoto/knowledge-base-api/internal/repository"
	"github.com/harukimoto/knowledge-base-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials deliberately covers unknown email, inactive
	// account and wrong password alike so a caller cannot tell which
	// check failed.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrOrganizationChoice   = errors.New("provide either an organization name or an invite code, not both")
	ErrInvalidInviteCode    = errors.New("invalid invite code")
	ErrEmailTaken           = errors.New("email already registered in this organization")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToCreateOrg    = errors.New("failed to create organization")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	sessions *SessionManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, orgs repository.OrganizationRepository, sessions *SessionManager) *AuthService {
	return &AuthService{
		users:    users,
		orgs:     orgs,
		sessions: sessions,
	}
}

// AuthResult is the triple returned by a successful login or registration.
type AuthResult struct {
	User         *models.User
	Organization *models.Organization
	Session      *models.Session
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// Login verifies credentials and issues a session.
func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	org, err := s.orgs.FindByID(user.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	session, err := s.sessions.Create(user.ID, user.OrganizationID, input.RememberMe)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Organization: org, Session: session}, nil
}

// RegisterInput represents the required information to create a new account.
// Exactly one of OrganizationName (create a new organization) or InviteCode
// (join an existing one) must be provided.
type RegisterInput struct {
	Name               string
	Email              string
	Password           string
	ConfirmPassword    string
	OrganizationName   string
	OrganizationDomain string
	InviteCode         string
	RememberMe         bool
}

// Register creates a new account. The first user of a new organization is
// always an admin; users joining by invite code start as members.
func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	orgName := strings.TrimSpace(input.OrganizationName)
	inviteCode := strings.TrimSpace(input.InviteCode)
	if (orgName == "") == (inviteCode == "") {
		return nil, ErrOrganizationChoice
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	var user *models.User
	var org *models.Organization
	if orgName != "" {
		user, org, err = s.registerNewOrganization(name, email, string(hashedPassword), orgName, strings.TrimSpace(input.OrganizationDomain))
	} else {
		user, org, err = s.registerWithInvite(name, email, string(hashedPassword), inviteCode)
	}
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Create(user.ID, org.ID, input.RememberMe)
	if err != nil {
		return nil, err
	}

	return &AuthResult{User: user, Organization: org, Session: session}, nil
}

func (s *AuthService) registerNewOrganization(name, email, passwordHash, orgName, orgDomain string) (*models.User, *models.Organization, error) {
	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, nil, ErrFailedToCreateOrg
	}

	org := &models.Organization{
		Name:       orgName,
		Domain:     orgDomain,
		Plan:       models.PlanFree,
		MaxMembers: constants.DefaultMaxMembers,
		InviteCode: inviteCode,
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if err := s.users.CreateWithOrganization(user, org); err != nil {
		switch {
		case errors.Is(err, repository.ErrCreateOrganization):
			return nil, nil, ErrFailedToCreateOrg
		case errors.Is(err, repository.ErrCreateUser):
			return nil, nil, ErrFailedToCreateUser
		default:
			return nil, nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	return user, org, nil
}

func (s *AuthService) registerWithInvite(name, email, passwordHash, inviteCode string) (*models.User, *models.Organization, error) {
	org, err := s.orgs.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidInviteCode
		}
		return nil, nil, fmt.Errorf("failed to find organization by invite code: %w", err)
	}

	if _, err := s.users.FindByEmailInOrganization(org.ID, email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	user := &models.User{
		Email:          email,
		Name:           name,
		PasswordHash:   passwordHash,
		Role:           models.RoleMember,
		OrganizationID: org.ID,
		IsActive:       true,
	}

	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, ErrFailedToCreateUser
	}

	return user, org, nil
}

// Logout destroys the session for the token. It is best-effort and never
// returns an error; logging out without a session is a no-op.
func (s *AuthService) Logout(token string) {
	if err := s.sessions.Destroy(token); err != nil {
		log.Printf("Failed to destroy session on logout: %v", err)
	}
}

// CurrentSession resolves a token to its session. A nil session with a nil
// error means "not authenticated"; errors are reserved for storage failures.
func (s *AuthService) CurrentSession(token string) (*models.Session, error) {
	session, err := s.sessions.Validate(token)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// CurrentUser resolves a token to its user, nil when not authenticated.
// A deactivated user is treated as unauthenticated even with a live session.
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	session, err := s.CurrentSession(token)
	if err != nil || session == nil {
		return nil, err
	}

	user, err := s.users.FindByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, nil
	}

	return user, nil
}

// CurrentOrganization resolves a token to the session's organization,
// nil when not authenticated.
func (s *AuthService) CurrentOrganization(token string) (*models.Organization, error) {
	session, err := s.CurrentSession(token)
	if err != nil || session == nil {
		return nil, err
	}

	org, err := s.orgs.FindByID(session.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	return org, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
