// Package lockout guards the proxied login endpoint against brute-force
// attempts. Failures are counted per client key inside a sliding window; once
// the threshold is crossed the key is held locked for the configured duration
// and further attempts are answered locally without reaching the authority.
package lockout

import (
	"context"
	"time"
)

// Store counts login failures per key. Implementations expire counters on
// their own once the window lapses.
type Store interface {
	// RecordFailure increments the failure counter for key, starting a new
	// window when none is active, and returns the updated count.
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)

	// Failures returns the count within the active window and the time left
	// until it lapses. A zero count means no active window.
	Failures(ctx context.Context, key string) (int, time.Duration, error)

	// Extend resets the time left on an active window. Used to hold a lock
	// for the full lockout duration once the threshold is crossed.
	Extend(ctx context.Context, key string, ttl time.Duration) error

	// Clear drops the counter for key. Clearing a missing key is a no-op.
	Clear(ctx context.Context, key string) error
}

// KeyFor builds the counter key for a client. The device fingerprint widens
// the key so one abusive client behind a shared NAT does not lock out its
// neighbors; without a fingerprint the key degrades to IP-only.
func KeyFor(clientIP, fingerprint string) string {
	if fingerprint == "" {
		return clientIP
	}
	return clientIP + ":" + fingerprint
}
