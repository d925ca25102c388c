package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   Links
	}{
		{
			name:   "next and prev",
			header: `<https://canvas.example.com/api/v1/courses?page=3>; rel="next", <https://canvas.example.com/api/v1/courses?page=1>; rel="prev"`,
			want: Links{
				Next: "https://canvas.example.com/api/v1/courses?page=3",
				Prev: "https://canvas.example.com/api/v1/courses?page=1",
			},
		},
		{
			name: "all five relations",
			header: `<https://c.test/a?page=2>; rel="current", ` +
				`<https://c.test/a?page=3>; rel="next", ` +
				`<https://c.test/a?page=1>; rel="prev", ` +
				`<https://c.test/a?page=1>; rel="first", ` +
				`<https://c.test/a?page=9>; rel="last"`,
			want: Links{
				Current: "https://c.test/a?page=2",
				Next:    "https://c.test/a?page=3",
				Prev:    "https://c.test/a?page=1",
				First:   "https://c.test/a?page=1",
				Last:    "https://c.test/a?page=9",
			},
		},
		{
			name:   "empty header",
			header: "",
			want:   Links{},
		},
		{
			name:   "unrecognized rel ignored",
			header: `<https://c.test/a>; rel="preload", <https://c.test/b>; rel="next"`,
			want:   Links{Next: "https://c.test/b"},
		},
		{
			name:   "malformed segment skipped",
			header: `garbage, <https://c.test/b>; rel="next", <unclosed; rel="prev"`,
			want:   Links{Next: "https://c.test/b"},
		},
		{
			name:   "missing rel attribute",
			header: `<https://c.test/a>; title="nope"`,
			want:   Links{},
		},
		{
			name:   "empty url skipped",
			header: `<>; rel="next"`,
			want:   Links{},
		},
		{
			name:   "entirely malformed",
			header: `this is not a link header`,
			want:   Links{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.header))
		})
	}
}

func TestLinks_HasNext(t *testing.T) {
	assert.True(t, Links{Next: "https://c.test/a?page=2"}.HasNext())
	assert.False(t, Links{Prev: "https://c.test/a?page=1"}.HasNext())
	assert.False(t, Links{}.HasNext())
}

func TestLinks_NextURL(t *testing.T) {
	l := Parse(`<https://c.test/a?page=2>; rel="next"`)
	assert.Equal(t, "https://c.test/a?page=2", l.NextURL())
	assert.Equal(t, "", Links{}.NextURL())
}
