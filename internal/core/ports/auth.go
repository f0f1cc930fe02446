package ports

import (
	"context"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

// UserRepository defines the persistence surface needed for authentication.
type UserRepository interface {
	// FindStaffByEmail returns the user with the given email whose role is
	// not client. Returns domain.ErrNotFound when no such user exists.
	FindStaffByEmail(ctx context.Context, email string) (*domain.User, error)
}

// LoginResult carries everything the login endpoint hands back: the session
// data itself, the opaque cookie token, and a bearer token for API clients
// that cannot hold cookies.
type LoginResult struct {
	Session      domain.SessionData
	SessionToken string
	BearerToken  string
}

// AuthService verifies credentials and issues sessions.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// VerifyBearer resolves an HS256 bearer token into session data.
	VerifyBearer(token string) (domain.SessionData, error)
}

// SessionStore maps opaque tokens to session data. Entries are created at
// login and only read afterwards; there is no eviction.
type SessionStore interface {
	Create(data domain.SessionData) (token string)
	Get(token string) (domain.SessionData, bool)
}
