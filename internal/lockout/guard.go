package lockout

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"taskgate/internal/gateway/device"
	"taskgate/pkg/platform/middleware/metadata"
)

// Proxied endpoints the guard watches.
const (
	LoginPath  = "/api/v1/auth/login"
	LogoutPath = "/api/v1/auth/logout"
)

// deniedBody mirrors the authority's error envelope so clients parse both the
// same way.
type deniedBody struct {
	Detail string `json:"detail"`
}

// Guard is middleware that enforces the lockout policy around the proxied
// login endpoint and records session endings on the logout endpoint.
// Everything else passes through untouched.
type Guard struct {
	service *Service
	devices *device.Service
	logger  *slog.Logger
}

// NewGuard creates the guard middleware.
func NewGuard(service *Service, devices *device.Service, logger *slog.Logger) *Guard {
	return &Guard{
		service: service,
		devices: devices,
		logger:  logger,
	}
}

// Handler watches login attempts and logouts. A locked key is answered 429
// locally; an unlocked login proceeds to the authority, whose status decides
// whether the counter grows or resets. Completed logouts feed the audit trail.
func (g *Guard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == LoginPath:
			g.observeLogin(w, r, next)
		case r.Method == http.MethodPost && r.URL.Path == LogoutPath:
			g.observeLogout(w, r, next)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (g *Guard) observeLogin(w http.ResponseWriter, r *http.Request, next http.Handler) {
	ctx := r.Context()
	key := KeyFor(metadata.GetClientIP(ctx), g.devices.ComputeFingerprint(metadata.GetUserAgent(ctx)))

	allowed, retryAfter := g.service.Allowed(ctx, key)
	if !allowed {
		seconds := int(math.Ceil(retryAfter.Seconds()))
		g.logger.InfoContext(ctx, "login attempt blocked by lockout", "retry_after_seconds", seconds)

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(deniedBody{
			Detail: "Too many failed login attempts. Please try again later.",
		})
		return
	}

	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(recorder, r)

	switch {
	case recorder.status == http.StatusUnauthorized || recorder.status == http.StatusForbidden:
		g.service.RecordFailure(ctx, key)
	case recorder.status >= 200 && recorder.status < 300:
		g.service.RecordSuccess(ctx, key)
	}
}

// observeLogout lets the request through and notes completed logouts. Only a
// 2xx from the authority counts; a rejected logout ended no session.
func (g *Guard) observeLogout(w http.ResponseWriter, r *http.Request, next http.Handler) {
	recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	next.ServeHTTP(recorder, r)

	if recorder.status >= 200 && recorder.status < 300 {
		g.service.RecordLogout(r.Context())
	}
}

// statusRecorder captures the upstream status so the guard can classify the
// attempt after the response has been written.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
