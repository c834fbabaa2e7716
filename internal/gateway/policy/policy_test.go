package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskgate/internal/gateway/routes"
)

func TestDecide_ProtectedRequiresAuth(t *testing.T) {
	d := Decide(routes.ClassProtected, true, "/dashboard")
	assert.Equal(t, OutcomeAllow, d.Outcome)
	assert.Empty(t, d.Location)

	d = Decide(routes.ClassProtected, false, "/dashboard")
	assert.Equal(t, OutcomeRedirectSignIn, d.Outcome)
	assert.Equal(t, "/auth/signin?redirect=/dashboard", d.Location)
}

func TestDecide_ReturnPathKeepsNesting(t *testing.T) {
	d := Decide(routes.ClassProtected, false, "/dashboard/tasks/42")
	assert.Equal(t, "/auth/signin?redirect=/dashboard/tasks/42", d.Location)
}

func TestDecide_RootAlwaysLandsOnLanding(t *testing.T) {
	// Root redirects regardless of the auth verdict; no auto-redirect to the
	// authenticated area even for signed-in visitors.
	for _, authenticated := range []bool{true, false} {
		d := Decide(routes.ClassRoot, authenticated, "/")
		assert.Equal(t, OutcomeRedirectLanding, d.Outcome)
		assert.Equal(t, "/landing", d.Location)
	}
}

func TestDecide_AuthOnlyIsTolerated(t *testing.T) {
	// Visiting sign-in while already signed in is allowed at this layer.
	for _, authenticated := range []bool{true, false} {
		d := Decide(routes.ClassAuthOnly, authenticated, "/auth/signin")
		assert.Equal(t, OutcomeAllow, d.Outcome)
	}
}

func TestDecide_PublicIsUngated(t *testing.T) {
	for _, authenticated := range []bool{true, false} {
		d := Decide(routes.ClassPublic, authenticated, "/landing")
		assert.Equal(t, OutcomeAllow, d.Outcome)
	}
}

func TestDecide_CoversAllCells(t *testing.T) {
	// Every classification crossed with both verdicts produces a decision.
	classes := []routes.Class{routes.ClassProtected, routes.ClassAuthOnly, routes.ClassRoot, routes.ClassPublic}
	for _, class := range classes {
		for _, authenticated := range []bool{true, false} {
			d := Decide(class, authenticated, "/x")
			assert.NotEmpty(t, d.Outcome)
			if d.Outcome != OutcomeAllow {
				assert.NotEmpty(t, d.Location)
			}
		}
	}
}
