// Package middleware holds the gateway's request-time gate: every inbound
// navigation is classified, verified, and either allowed through to the
// upstream or answered with a redirect. The gate keeps no state between
// requests, so gateway replicas need no affinity.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"taskgate/internal/authority"
	"taskgate/internal/gateway/device"
	"taskgate/internal/gateway/metrics"
	"taskgate/internal/gateway/policy"
	"taskgate/internal/gateway/routes"
	"taskgate/internal/platform/audit"
	"taskgate/pkg/platform/middleware/metadata"
	"taskgate/pkg/platform/middleware/request"
)

// CredentialVerifier is the verdict provider for protected paths.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) bool
}

// Gate evaluates the route policy for each request.
type Gate struct {
	verifier CredentialVerifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    audit.Publisher
}

// Option configures the Gate.
type Option func(*Gate)

// WithMetrics enables decision and verification metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gate) {
		g.metrics = m
	}
}

// WithAuditPublisher enables audit events for denied navigations.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(g *Gate) {
		g.audit = p
	}
}

// New creates the gate.
func New(verifier CredentialVerifier, logger *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		verifier: verifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Handler wraps next with the classify-verify-decide pipeline. The verdict is
// computed only for protected paths; the policy table ignores it everywhere
// else, and a verification round trip per public asset would be wasted.
func (g *Gate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		path := r.URL.Path
		class := routes.Classify(path)

		authenticated := false
		if class == routes.ClassProtected {
			start := time.Now()
			authenticated = g.verifier.Verify(ctx, credentialFromRequest(r))
			if g.metrics != nil {
				g.metrics.ObserveVerification(time.Since(start), authenticated)
			}
		}

		decision := policy.Decide(class, authenticated, path)
		if g.metrics != nil {
			g.metrics.ObserveDecision(string(class), string(decision.Outcome))
		}

		switch decision.Outcome {
		case policy.OutcomeAllow:
			next.ServeHTTP(w, r)
		case policy.OutcomeRedirectSignIn:
			g.logger.InfoContext(ctx, "redirecting unauthenticated navigation",
				"path", path,
				"location", decision.Location,
				"request_id", request.GetRequestID(ctx),
			)
			g.emitRedirect(r, decision)
			http.Redirect(w, r, decision.Location, http.StatusTemporaryRedirect)
		case policy.OutcomeRedirectLanding:
			http.Redirect(w, r, decision.Location, http.StatusTemporaryRedirect)
		}
	})
}

// emitRedirect records a denied navigation. Best-effort: an audit failure is
// logged and the redirect proceeds.
func (g *Gate) emitRedirect(r *http.Request, decision policy.Decision) {
	if g.audit == nil {
		return
	}
	ctx := r.Context()
	event := audit.Event{
		Action:    string(audit.EventAuthRedirect),
		Path:      r.URL.Path,
		Outcome:   string(decision.Outcome),
		ClientIP:  metadata.GetClientIP(ctx),
		Device:    device.ParseUserAgent(metadata.GetUserAgent(ctx)),
		RequestID: request.GetRequestID(ctx),
	}
	if err := g.audit.Emit(ctx, event); err != nil {
		g.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

func credentialFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(authority.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
