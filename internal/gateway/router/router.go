// Package router assembles the gateway's HTTP surface: the proxied authority
// API, the gated web upstream, and the operational endpoints.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskgate/internal/gateway/middleware"
	"taskgate/internal/lockout"
	"taskgate/pkg/platform/middleware/metadata"
	"taskgate/pkg/platform/middleware/request"
)

// HealthChecker reports backing-service health for /healthz.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts. Guard and Health are optional;
// the corresponding behavior is skipped when nil.
type Deps struct {
	Gate         *middleware.Gate
	Guard        *lockout.Guard
	AuthorityURL *url.URL
	WebURL       *url.URL
	Health       HealthChecker
	Logger       *slog.Logger
}

// New builds the gateway router. The API subtree is proxied to the authority
// with the lockout guard in front; everything else passes through the gate on
// its way to the web upstream.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", healthHandler(deps.Health))

	apiProxy := newProxy(deps.AuthorityURL, deps.Logger)
	if deps.Guard != nil {
		r.Handle("/api/*", deps.Guard.Handler(apiProxy))
	} else {
		r.Handle("/api/*", apiProxy)
	}

	webProxy := newProxy(deps.WebURL, deps.Logger)
	r.Handle("/*", deps.Gate.Handler(webProxy))

	return r
}

// newProxy builds a reverse proxy to target. Upstream failures are answered
// with the same error envelope the authority uses.
func newProxy(target *url.URL, logger *slog.Logger) http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.ErrorContext(r.Context(), "upstream unreachable",
			"upstream", target.Host,
			"path", r.URL.Path,
			"request_id", request.GetRequestID(r.Context()),
			"error", err,
		)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Upstream unavailable"})
	}
	return proxy
}

func healthHandler(health HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]string{"status": "ok"}

		if health != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := health.Health(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = map[string]string{"status": "degraded", "reason": err.Error()}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
