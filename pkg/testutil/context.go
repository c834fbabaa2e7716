package testutil

import (
	"net/http"

	"taskgate/internal/authority"
	"taskgate/pkg/platform/middleware/metadata"
	"taskgate/pkg/platform/middleware/request"
)

// WithCredential attaches a session credential cookie to the request, the way
// a browser would after login.
func WithCredential(req *http.Request, credential string) *http.Request {
	req.AddCookie(&http.Cookie{Name: authority.CookieName, Value: credential})
	return req
}

// WithClientMetadata injects client IP and User-Agent into the request
// context, simulating the metadata middleware for tests that bypass the full
// chain.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(metadata.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithRequestID injects a fixed request ID, simulating the request ID
// middleware.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(request.WithRequestID(req.Context(), id))
}
