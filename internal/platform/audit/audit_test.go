package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryMapping(t *testing.T) {
	assert.Equal(t, CategorySecurity, EventAuthRedirect.Category())
	assert.Equal(t, CategorySecurity, EventLoginFailed.Category())
	assert.Equal(t, CategorySecurity, EventLockoutTriggered.Category())
	assert.Equal(t, CategoryOperations, EventLoginSucceeded.Category())
	assert.Equal(t, CategoryOperations, EventLogout.Category())
}

func TestCategoryMapping_UnknownDefaultsToSecurity(t *testing.T) {
	assert.Equal(t, CategorySecurity, AuditEvent("made_up").Category())
}

func TestFill(t *testing.T) {
	e := Fill(Event{Action: string(EventLogout)})
	assert.Equal(t, CategoryOperations, e.Category)
	assert.WithinDuration(t, time.Now(), e.Timestamp, time.Second)

	// Explicit values survive.
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e = Fill(Event{Action: "x", Category: CategoryOperations, Timestamp: ts})
	assert.Equal(t, CategoryOperations, e.Category)
	assert.Equal(t, ts, e.Timestamp)
}
