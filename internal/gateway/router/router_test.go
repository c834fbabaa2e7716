package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskgate/internal/gateway/device"
	"taskgate/internal/gateway/middleware"
	"taskgate/internal/lockout"
	"taskgate/internal/platform/config"
)

type allowAllVerifier struct{}

func (allowAllVerifier) Verify(context.Context, string) bool { return true }

// newRouter stands up the full chain against two fake upstreams and returns
// the assembled handler.
func newRouter(t *testing.T, authority, web http.Handler) http.Handler {
	t.Helper()

	authoritySrv := httptest.NewServer(authority)
	t.Cleanup(authoritySrv.Close)
	webSrv := httptest.NewServer(web)
	t.Cleanup(webSrv.Close)

	authorityURL, err := url.Parse(authoritySrv.URL)
	require.NoError(t, err)
	webURL, err := url.Parse(webSrv.URL)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	svc := lockout.NewService(lockout.NewMemoryStore(), config.Lockout{
		MaxFailures: 2,
		Window:      15 * time.Minute,
		TTL:         15 * time.Minute,
	}, logger)

	return New(Deps{
		Gate:         middleware.New(allowAllVerifier{}, logger),
		Guard:        lockout.NewGuard(svc, device.NewService(true), logger),
		AuthorityURL: authorityURL,
		WebURL:       webURL,
		Logger:       logger,
	})
}

func TestRouter_APISubtreeGoesToAuthority(t *testing.T) {
	authority := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"from":"authority","path":"` + r.URL.Path + `"}`))
	})
	web := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("web upstream must not receive API traffic")
	})
	handler := newRouter(t, authority, web)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "authority", body["from"])
	assert.Equal(t, "/api/v1/auth/me", body["path"], "the path reaches the authority unmodified")
}

func TestRouter_WebTrafficPassesTheGate(t *testing.T) {
	authority := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("authority must not receive page traffic")
	})
	web := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := newRouter(t, authority, web)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/landing", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "/landing", rr.Header().Get("Location"))
}

func TestRouter_LockoutGuardsTheLoginProxy(t *testing.T) {
	authority := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	handler := newRouter(t, authority, http.NotFoundHandler())

	login := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		req.RemoteAddr = "203.0.113.9:51234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusUnauthorized, login().Code)
	assert.Equal(t, http.StatusUnauthorized, login().Code)

	rr := login()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Detail)
}

func TestRouter_Healthz(t *testing.T) {
	handler := newRouter(t, http.NotFoundHandler(), http.NotFoundHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	handler := newRouter(t, http.NotFoundHandler(), http.NotFoundHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "go_goroutines")
}

func TestRouter_AssignsRequestIDs(t *testing.T) {
	handler := newRouter(t, http.NotFoundHandler(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/landing", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/landing", nil)
	req.Header.Set("X-Request-Id", "fixed-id")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, "fixed-id", rr.Header().Get("X-Request-Id"), "incoming IDs survive the hop")
}
