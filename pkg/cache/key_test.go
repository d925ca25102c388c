package cache

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "resource only",
			key:  Key{Resource: "courses"},
			want: "courses",
		},
		{
			name: "resource with id",
			key:  Key{Resource: "courses", ID: "12"},
			want: "courses:12",
		},
		{
			name: "params sorted by name",
			key: Key{
				Resource: "courses",
				Params: url.Values{
					"include":          []string{"term"},
					"enrollment_state": []string{"active"},
				},
			},
			want: "courses:enrollment_state=active:include=term",
		},
		{
			name: "multi-valued param",
			key: Key{
				Resource: "assignments",
				ID:       "7",
				Params:   url.Values{"include": []string{"submission", "rubric"}},
			},
			want: "assignments:7:include=submission,rubric",
		},
		{
			name: "leading and trailing separators trimmed",
			key:  Key{Resource: ":users:self:bookmarks:"},
			want: "users:self:bookmarks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	a := Key{Resource: "courses", Params: url.Values{"a": {"1"}, "b": {"2"}, "c": {"3"}}}
	b := Key{Resource: "courses", Params: url.Values{"c": {"3"}, "b": {"2"}, "a": {"1"}}}

	// Insertion order must not leak into the key.
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.String(), b.String())
	}
}
