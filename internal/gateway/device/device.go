// Package device derives display names and stable fingerprints from
// User-Agent strings. Display names enrich audit events; fingerprints widen
// the lockout key so one abusive client behind a shared NAT does not lock out
// its neighbors.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mssola/useragent"
)

// ParseUserAgent renders a User-Agent as a short human-readable summary,
// e.g. "Chrome on Mac OS X".
func ParseUserAgent(raw string) string {
	if raw == "" {
		return "Unknown Device"
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}

	platform := ua.OSInfo().Name
	if platform == "" {
		platform = ua.Platform()
	}
	if platform == "" {
		platform = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + platform)
}

// Service computes device fingerprints. Disabled, it returns empty strings so
// callers degrade to IP-only keying.
type Service struct {
	enabled bool
}

// NewService creates a fingerprint service.
func NewService(enabled bool) *Service {
	return &Service{enabled: enabled}
}

// ComputeFingerprint hashes the browser name, its major version, and the OS
// name. Minor version bumps keep the fingerprint stable; a different browser
// or major version changes it.
func (s *Service) ComputeFingerprint(raw string) string {
	if !s.enabled || raw == "" {
		return ""
	}

	ua := useragent.New(raw)
	browser, version := ua.Browser()
	major := version
	if idx := strings.IndexByte(version, '.'); idx != -1 {
		major = version[:idx]
	}

	sum := sha256.Sum256([]byte(browser + "/" + major + "/" + ua.OSInfo().Name))
	return hex.EncodeToString(sum[:])
}
