package lockout

import (
	"context"
	"log/slog"
	"time"

	"taskgate/internal/gateway/device"
	"taskgate/internal/platform/audit"
	"taskgate/internal/platform/config"
	"taskgate/pkg/platform/middleware/metadata"
	"taskgate/pkg/platform/middleware/request"
)

// Service applies the lockout policy on top of a Store. Store errors never
// block a login attempt: this guard trades enforcement for availability, the
// credential check itself stays with the authority.
type Service struct {
	store  Store
	cfg    config.Lockout
	logger *slog.Logger
	audit  audit.Publisher
}

// Option configures the Service.
type Option func(*Service)

// WithAuditPublisher enables audit events for login outcomes and lockout
// transitions.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

// NewService creates the lockout service.
func NewService(store Store, cfg config.Lockout, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allowed reports whether a login attempt for key may proceed. When denied,
// the second return value is how long the client should wait.
func (s *Service) Allowed(ctx context.Context, key string) (bool, time.Duration) {
	if s.cfg.Disabled || s.store == nil {
		return true, 0
	}

	count, remaining, err := s.store.Failures(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "lockout store unavailable, allowing attempt", "error", err)
		return true, 0
	}
	if count >= s.cfg.MaxFailures {
		return false, remaining
	}
	return true, 0
}

// RecordFailure counts one failed login attempt. Crossing the threshold locks
// the key for the configured duration.
func (s *Service) RecordFailure(ctx context.Context, key string) {
	s.emit(ctx, audit.EventLoginFailed, "")

	if s.cfg.Disabled || s.store == nil {
		return
	}

	count, err := s.store.RecordFailure(ctx, key, s.cfg.Window)
	if err != nil {
		s.logger.WarnContext(ctx, "lockout failure not recorded", "error", err)
		return
	}
	if count != s.cfg.MaxFailures {
		return
	}

	if err := s.store.Extend(ctx, key, s.cfg.TTL); err != nil {
		s.logger.WarnContext(ctx, "lockout hold not extended", "error", err)
	}
	s.logger.InfoContext(ctx, "login lockout triggered",
		"failures", count,
		"ttl", s.cfg.TTL,
		"request_id", request.GetRequestID(ctx),
	)
	s.emit(ctx, audit.EventLockoutTriggered, "failure threshold reached")
}

// RecordSuccess clears the failure counter after a successful login.
func (s *Service) RecordSuccess(ctx context.Context, key string) {
	s.emit(ctx, audit.EventLoginSucceeded, "")

	if s.cfg.Disabled || s.store == nil {
		return
	}

	count, _, err := s.store.Failures(ctx, key)
	if err == nil && count == 0 {
		return
	}
	if err := s.store.Clear(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "lockout counter not cleared", "error", err)
		return
	}
	if count >= s.cfg.MaxFailures {
		s.emit(ctx, audit.EventLockoutCleared, "successful login")
	}
}

// RecordLogout notes a completed logout. Logouts carry no lockout state; the
// event exists for the audit trail.
func (s *Service) RecordLogout(ctx context.Context) {
	s.emit(ctx, audit.EventLogout, "")
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, reason string) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		Action:    string(action),
		Reason:    reason,
		ClientIP:  metadata.GetClientIP(ctx),
		Device:    device.ParseUserAgent(metadata.GetUserAgent(ctx)),
		RequestID: request.GetRequestID(ctx),
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}
