package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Class
	}{
		{"/", ClassRoot},
		{"/dashboard", ClassProtected},
		{"/dashboard/tasks/42", ClassProtected},
		{"/auth/signin", ClassAuthOnly},
		{"/auth/signup", ClassAuthOnly},
		{"/auth/signin/", ClassAuthOnly},
		{"/landing", ClassPublic},
		{"/about", ClassPublic},
		{"/api/v1/tasks", ClassPublic},
		{"", ClassPublic},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path))
		})
	}
}

func TestClassify_SegmentBoundaries(t *testing.T) {
	// Prefix matching must respect segment boundaries.
	assert.Equal(t, ClassPublic, Classify("/dashboards"))
	assert.Equal(t, ClassPublic, Classify("/auth/signinfo"))
	assert.Equal(t, ClassProtected, Classify("/dashboard/"))
}

func TestClassify_IsPure(t *testing.T) {
	// Same input, same answer, no state between calls.
	for i := 0; i < 3; i++ {
		assert.Equal(t, ClassProtected, Classify("/dashboard"))
		assert.Equal(t, ClassRoot, Classify("/"))
	}
}
