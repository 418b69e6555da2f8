package constants

// Session
const (
	SessionCookieName = "kb_session"
	SessionKeyToken   = "session_token"
)

// Context keys
const (
	ContextKeyUser = "current_user"
)

// Validation
const (
	MinPasswordLength = 6
)

// Pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Organization defaults
const (
	DefaultMaxMembers = 25
)
