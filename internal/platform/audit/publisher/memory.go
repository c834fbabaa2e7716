package publisher

import (
	"context"
	"sync"

	"taskgate/internal/platform/audit"
)

// Memory is an in-process publisher that records events. Used in tests and as
// the default sink when no broker is configured.
type Memory struct {
	mu     sync.Mutex
	events []audit.Event
}

// NewMemory creates an in-memory publisher.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Emit(_ context.Context, event audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, audit.Fill(event))
	return nil
}

func (m *Memory) Close() error {
	return nil
}

// Events returns a copy of everything emitted so far.
func (m *Memory) Events() []audit.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, audit.Event) error { return nil }
func (Nop) Close() error                            { return nil }
