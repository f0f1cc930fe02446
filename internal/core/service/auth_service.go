package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/servicedesk/admin-api/internal/core/domain"
	"github.com/servicedesk/admin-api/internal/core/ports"
)

// AuthService verifies credentials and issues sessions. Browser clients get a
// cookie-backed opaque session token; API clients get an HS256 bearer token
// carrying the same session data.
type AuthService struct {
	users     ports.UserRepository
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Login checks the email/password pair against the staff user record. Client
// accounts cannot log in to the admin API. A mismatch creates no session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrBadCredentials
	}

	user, err := s.users.FindStaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrBadCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.StoredPassword), []byte(password)) != nil {
		s.logger.Warn().Str("email", email).Msg("failed login attempt")
		return nil, domain.ErrBadCredentials
	}

	data := domain.SessionData{
		Email:     user.Email,
		Role:      user.Role,
		Login:     user.Login,
		CreatedAt: time.Now().UTC(),
	}
	token := s.sessions.Create(data)

	bearer, err := s.generateBearer(data)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("login", user.Login).Str("role", string(user.Role)).Msg("session created")
	return &ports.LoginResult{Session: data, SessionToken: token, BearerToken: bearer}, nil
}

// VerifyBearer resolves an HS256 bearer token into session data.
func (s *AuthService) VerifyBearer(token string) (domain.SessionData, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !parsed.Valid {
		return domain.SessionData{}, domain.ErrInvalidSession
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	login, _ := claims["login"].(string)
	if email == "" || role == "" {
		return domain.SessionData{}, domain.ErrInvalidSession
	}
	return domain.SessionData{Email: email, Role: domain.Role(role), Login: login}, nil
}

func (s *AuthService) generateBearer(data domain.SessionData) (string, error) {
	claims := jwt.MapClaims{
		"email": data.Email,
		"role":  string(data.Role),
		"login": data.Login,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
