// Package audit captures security-relevant gateway activity. Events are
// emitted from domain logic through a Publisher and are transport-agnostic so
// sinks can fan out. Emission is best-effort everywhere: an audit failure is
// logged, never propagated into the request path.
package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose, enabling
// different retention policies and routing downstream.
type EventCategory string

const (
	// CategorySecurity covers events relevant to security monitoring.
	// Examples: denied navigations, login failures, lockouts.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for operational visibility.
	// Examples: successful logins, logouts.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names a kind of event.
type AuditEvent string

const (
	EventAuthRedirect     AuditEvent = "auth_redirect"
	EventLoginFailed      AuditEvent = "login_failed"
	EventLoginSucceeded   AuditEvent = "login_succeeded"
	EventLogout           AuditEvent = "logout"
	EventLockoutTriggered AuditEvent = "lockout_triggered"
	EventLockoutCleared   AuditEvent = "lockout_cleared"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventAuthRedirect:     CategorySecurity,
	EventLoginFailed:      CategorySecurity,
	EventLockoutTriggered: CategorySecurity,
	EventLockoutCleared:   CategorySecurity,
	EventLoginSucceeded:   CategoryOperations,
	EventLogout:           CategoryOperations,
}

// Category returns the event's category; unknown events count as security so
// nothing silently drops into a shorter retention tier.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategorySecurity
}

// Event is one audit record.
type Event struct {
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	// Path is the request path that triggered the event, when any.
	Path string `json:"path,omitempty"`
	// Outcome records the gateway decision or upstream result.
	Outcome string `json:"outcome,omitempty"`
	Reason  string `json:"reason,omitempty"`
	// ClientIP is the requester's address as seen behind proxies.
	ClientIP string `json:"client_ip,omitempty"`
	// Device is a human-readable summary parsed from the User-Agent.
	Device    string `json:"device,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Publisher fans events out to a sink. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
	Close() error
}

// Store persists events for querying. The Kafka consumer worker materializes
// the topic through this interface.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Fill stamps derived fields: category from action, timestamp when unset.
func Fill(event Event) Event {
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return event
}
