// Package controller implements the operation façade: every mutating or
// sensitive read operation checks the session's permission, validates input,
// delegates to the bank registry, asks the persistence collaborator to record
// the outcome and wraps it in a result value.
package controller

import (
	"sync"

	"github.com/okavango-bank/corebank/internal/domain"
)

// Session is the transient authentication state of the façade, kept separate
// from the persisted user record. It holds at most one authenticated
// principal at a time.
type Session struct {
	mu   sync.RWMutex
	user *domain.User
}

// NewSession creates an empty session with no principal bound.
func NewSession() *Session {
	return &Session{}
}

// Bind makes the given user the session's current principal, replacing any
// previous one.
func (s *Session) Bind(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// Clear logs out the current principal, if any, and unbinds it.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.user.Logout(s.user.ID)
		s.user = nil
	}
}

// User returns the bound principal, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a principal is bound and authenticated.
func (s *Session) IsAuthenticated() bool {
	user := s.User()
	return user != nil && user.IsAuthenticated(user.ID)
}

// HasPermission reports whether the bound, authenticated principal holds the
// permission. An empty session holds nothing.
func (s *Session) HasPermission(permission domain.Permission) bool {
	user := s.User()
	return user != nil && user.HasPermission(user.ID, permission)
}
