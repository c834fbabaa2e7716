// Package policy decides what happens to a classified request given the
// verifier's verdict. The decision table is evaluated once per inbound
// request; a denied request simply receives a redirect response.
package policy

import (
	"net/url"

	"taskgate/internal/gateway/routes"
)

const (
	// SignInPath is where unauthenticated visitors of protected paths go.
	SignInPath = "/auth/signin"
	// LandingPath is the public landing page.
	LandingPath = "/landing"
	// RedirectParam carries the originally requested path through sign-in.
	RedirectParam = "redirect"
)

// Outcome is the gateway's per-request verdict.
type Outcome string

const (
	OutcomeAllow           Outcome = "allow"
	OutcomeRedirectSignIn  Outcome = "redirect_sign_in"
	OutcomeRedirectLanding Outcome = "redirect_landing"
)

// Decision is the result of evaluating the policy table for one request.
// Location is set only for redirect outcomes.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide evaluates the policy table:
//
//	Protected + authenticated   → allow
//	Protected + unauthenticated → redirect to sign-in with return path
//	Root                        → redirect to landing, regardless of auth state
//	AuthOnly                    → allow
//	Public                      → allow
func Decide(class routes.Class, authenticated bool, requestedPath string) Decision {
	switch class {
	case routes.ClassRoot:
		return Decision{Outcome: OutcomeRedirectLanding, Location: LandingPath}
	case routes.ClassProtected:
		if authenticated {
			return Decision{Outcome: OutcomeAllow}
		}
		return Decision{Outcome: OutcomeRedirectSignIn, Location: signInLocation(requestedPath)}
	default:
		return Decision{Outcome: OutcomeAllow}
	}
}

// signInLocation builds the sign-in URL carrying the original path. Slashes in
// the return path stay literal so the target reads naturally; characters that
// are invalid in a path are percent-escaped.
func signInLocation(requestedPath string) string {
	escaped := (&url.URL{Path: requestedPath}).EscapedPath()
	return SignInPath + "?" + RedirectParam + "=" + escaped
}
