package client

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when a call cannot acquire a rate-limit token
// within the configured wait ceiling. It is recognizable with errors.Is so
// callers can distinguish local throttling from upstream failures.
var ErrRateLimited = errors.New("rate limit wait exhausted")

// APIError represents a non-2xx upstream response. It carries the
// operation, status code and upstream error body so the caller can build a
// user-visible message without further context.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("canvas %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("canvas %s: status %d", e.Op, e.StatusCode)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
