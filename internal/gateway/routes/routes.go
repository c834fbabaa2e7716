// Package routes classifies request paths for the gateway. Classification is a
// pure function over known path prefixes; it holds no state and is recomputed
// per request.
package routes

import "strings"

// Class is the gating category of a request path.
type Class string

const (
	// ClassProtected paths require an active session.
	ClassProtected Class = "protected"
	// ClassAuthOnly paths are the sign-in/sign-up pages, meaningful only to
	// an unauthenticated visitor. The gateway tolerates authenticated visits.
	ClassAuthOnly Class = "auth_only"
	// ClassRoot is the literal root path, always sent to the landing page.
	ClassRoot Class = "root"
	// ClassPublic is everything else; no gating.
	ClassPublic Class = "public"
)

var (
	protectedPrefixes = []string{"/dashboard"}
	authOnlyPrefixes  = []string{"/auth/signin", "/auth/signup"}
)

// Classify maps a request path to its gating class. Unmatched paths default
// to public.
func Classify(path string) Class {
	if path == "/" {
		return ClassRoot
	}
	if hasAnyPrefix(path, protectedPrefixes) {
		return ClassProtected
	}
	if hasAnyPrefix(path, authOnlyPrefixes) {
		return ClassAuthOnly
	}
	return ClassPublic
}

// hasAnyPrefix matches on path segment boundaries so /dashboards is not
// mistaken for /dashboard.
func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
