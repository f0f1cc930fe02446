// Package session holds the process-wide session store. Sessions are created
// once at login and only read afterwards; entries persist until restart.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/servicedesk/admin-api/internal/core/domain"
)

// Store maps opaque tokens to session data behind an RWMutex: one writer at
// login time, many readers per request.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionData
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]domain.SessionData)}
}

// Create registers a new session and returns its opaque token.
func (s *Store) Create(data domain.SessionData) string {
	token := uuid.NewString()

	s.mu.Lock()
	s.sessions[token] = data
	s.mu.Unlock()

	return token
}

// Get resolves a token to its session data.
func (s *Store) Get(token string) (domain.SessionData, bool) {
	s.mu.RLock()
	data, ok := s.sessions[token]
	s.mu.RUnlock()
	return data, ok
}

// Len reports the number of live sessions, for observability.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
