package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLPolicy_TTLFor(t *testing.T) {
	policy := DefaultTTLPolicy()

	tests := []struct {
		key  string
		want time.Duration
	}{
		{"users:self:profile", TTLLong},
		{"user:42", TTLLong},
		{"courses:12", TTLLong},
		{"courses:12:modules", TTLMedium},
		{"courses:12:files", TTLLong},
		{"courses:12:discussions", TTLMedium},
		{"courses:12:announcements", TTLShort},
		{"submissions:12:88", TTLShort},
		{"planner:items", TTLShort},
		{"todo:self", TTLShort},
		{"grades:12", TTLShort},
		{"enrollments:12", TTLShort},
		{"search:q=biology", DefaultTTL},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.TTLFor(tt.key), "key %q", tt.key)
	}
}

func TestTTLPolicy_AssignmentBeatsCourse(t *testing.T) {
	policy := DefaultTTLPolicy()

	// A course key that also names assignments takes the assignment TTL:
	// the course rule excludes assignment sub-resources.
	assert.Equal(t, TTLShort, policy.TTLFor("course:12:assignments:due_at"))
	assert.Equal(t, "assignment", policy.CategoryFor("course:12:assignments:due_at"))
}

func TestTTLPolicy_CategoryFor(t *testing.T) {
	policy := DefaultTTLPolicy()

	assert.Equal(t, "course", policy.CategoryFor("courses:12"))
	assert.Equal(t, "user", policy.CategoryFor("users:self:bookmarks"))
	assert.Equal(t, "default", policy.CategoryFor("search:q=x"))
}
