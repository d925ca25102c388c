package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached Canvas response: the resource, an optional id,
// and every parameter that affects the response body. Keys built from the
// same inputs are byte-identical regardless of parameter insertion order.
type Key struct {
	// Resource is the resource path, e.g. "courses" or
	// "users:self:bookmarks".
	Resource string

	// ID is the resource identifier; empty for collections.
	ID string

	// Params are the request parameters that influence the response.
	Params url.Values
}

// String generates the deterministic key string.
// Format: resource[:id][:param=value ...], params sorted by name.
//
// Example:
//
//	courses:12:include=term
func (k Key) String() string {
	parts := []string{strings.Trim(k.Resource, ":")}

	if k.ID != "" {
		parts = append(parts, k.ID)
	}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, strings.Join(k.Params[name], ",")))
		}
	}

	return strings.Join(parts, ":")
}
