package memory

import (
	"context"
	"sync"

	"taskgate/internal/platform/audit"
)

// Store keeps audit events in memory. Test use only; the gateway itself never
// queries audit state on the request path.
type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

// NewStore creates an empty in-memory audit store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, audit.Fill(event))
	return nil
}

func (s *Store) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	// Newest first, matching the Postgres store.
	out := make([]audit.Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
