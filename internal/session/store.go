// Package session holds the client-side view of authentication: who is
// signed in, whether that is currently being established, and the operations
// that change it. One Store belongs to one client instance; it is never
// shared across clients.
package session

import (
	"context"
	"sync"

	"taskgate/internal/authority"
)

// SessionSource resolves a credential to its user record.
type SessionSource interface {
	CurrentSession(ctx context.Context, credential string) (*authority.User, error)
}

// Snapshot is a point-in-time read of the session state. A nil User means no
// authenticated session.
type Snapshot struct {
	User    *authority.User
	Loading bool
}

// Store caches the current user record between authority round trips. State
// is replaced wholesale, never merged: a refresh either installs the record
// the authority returned or clears the user entirely.
type Store struct {
	mu         sync.Mutex
	source     SessionSource
	credential string
	user       *authority.User
	loading    bool
}

// NewStore creates an empty store backed by source.
func NewStore(source SessionSource) *Store {
	return &Store{source: source}
}

// Read returns the current snapshot without side effects.
func (s *Store) Read() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Loading: s.loading}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Credential returns the held credential, empty when signed out.
func (s *Store) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// SetCredential installs a credential without touching the user record.
func (s *Store) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

// Refresh re-queries the authority and replaces the user record with the
// answer. Any failure, transport included, resolves to a cleared user; the
// loading flag is never left set. Safe to call repeatedly.
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	credential := s.credential
	s.loading = true
	s.mu.Unlock()

	var user *authority.User
	if credential != "" {
		if u, err := s.source.CurrentSession(ctx, credential); err == nil {
			user = u
		}
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()
}

// Clear drops the credential and user record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
	s.user = nil
}

func (s *Store) setUser(user *authority.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}
