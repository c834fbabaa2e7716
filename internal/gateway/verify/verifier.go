// Package verify answers one question: is this credential currently valid?
// The verdict comes from the authority, never from inspecting the credential
// itself, and ambiguity always resolves to invalid.
package verify

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"taskgate/internal/authority"
)

const tracerName = "taskgate/internal/gateway/verify"

// SessionChecker is the slice of the authority client the verifier needs.
type SessionChecker interface {
	CurrentSession(ctx context.Context, credential string) (*authority.User, error)
}

// Verifier checks credentials against the authority, failing closed: a missing
// credential, a rejection, a timeout, and a transport failure all produce the
// same verdict - not authenticated. Ambiguity must never be resolved as
// "allow".
type Verifier struct {
	authority SessionChecker
	timeout   time.Duration
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option configures the Verifier.
type Option func(*Verifier)

// WithTimeout bounds each verification call. A call that exceeds it counts as
// a rejection.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		v.timeout = d
	}
}

// WithLogger sets a logger for verification diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// New creates a Verifier backed by the given authority client.
func New(checker SessionChecker, opts ...Option) *Verifier {
	v := &Verifier{
		authority: checker,
		timeout:   3 * time.Second,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify reports whether the credential is currently valid. An empty
// credential short-circuits to false without a network call. Verify never
// returns an error; every failure mode is folded into the verdict.
func (v *Verifier) Verify(ctx context.Context, credential string) bool {
	if credential == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	ctx, span := v.tracer.Start(ctx, "verify.credential")
	defer span.End()

	if _, err := v.authority.CurrentSession(ctx, credential); err != nil {
		span.SetAttributes(attribute.Bool("verify.valid", false))
		v.logger.DebugContext(ctx, "credential verification failed closed", "error", err)
		return false
	}

	span.SetAttributes(attribute.Bool("verify.valid", true))
	return true
}
