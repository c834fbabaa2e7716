// Package authority is the transport to the external credential authority: the
// service that owns user identity, issues session credentials on login, and is
// the only party able to say whether a credential is currently valid.
package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	dErrors "taskgate/pkg/domain-errors"
)

const (
	basePath    = "/api/v1/auth"
	maxBodySize = 1 << 20
)

// Client talks HTTP to the authority. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every call to the authority.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithLogger sets a logger for transport-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a client for the authority at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentSession asks the authority who the credential belongs to. Caching is
// disabled so the verdict reflects current state, not a stale cache. Any
// failure, transport included, comes back as an error; the caller decides
// whether that means "unauthenticated" (it does, everywhere in this core).
func (c *Client) CurrentSession(ctx context.Context, credential string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+basePath+"/me", nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build current-session request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	attachCredential(req, credential)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "current-session call failed", "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "authority unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return nil, dErrors.Newf(dErrors.CodeUnauthorized, "authority rejected credential: %d", resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode current-session response")
	}
	return &user, nil
}

// Login exchanges credentials for a session. On a non-success response the
// failure payload is normalized into the error's message.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	resp, err := c.postJSON(ctx, basePath+"/login", body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, FallbackLogin)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, FallbackLogin)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(raw)
		return nil, dErrors.New(dErrors.CodeInvalidCredentials, detail.Message(FallbackLogin))
	}

	var lr loginResponse
	if err := json.Unmarshal(raw, &lr); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode login response")
	}

	credential := lr.AccessToken
	if credential == "" {
		credential = credentialFromCookies(resp)
	}
	if credential == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "authority issued no credential")
	}

	return &LoginResult{User: lr.User, Credential: credential}, nil
}

// Register creates a new account. The authority decides what counts as a
// rejection (duplicate email, weak password, malformed input); the failure
// payload is normalized into the error's message.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	if fullName != "" {
		body["full_name"] = fullName
	}

	resp, err := c.postJSON(ctx, basePath+"/register", body)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, FallbackRegister)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, FallbackRegister)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(raw)
		return nil, dErrors.New(dErrors.CodeRegistrationRejected, detail.Message(FallbackRegister))
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode register response")
	}
	return &user, nil
}

// Logout invalidates the credential server-side. Idempotent on the authority's
// end; safe to call with an already-invalid credential.
func (c *Client) Logout(ctx context.Context, credential string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+basePath+"/logout", nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build logout request")
	}
	attachCredential(req, credential)

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "authority unreachable")
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dErrors.Newf(dErrors.CodeInternal, "logout rejected: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func attachCredential(req *http.Request, credential string) {
	if credential != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: credential})
	}
}

func credentialFromCookies(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxBodySize))
}
