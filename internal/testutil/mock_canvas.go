// Package testutil provides testing utilities for the Canvas client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior of a mock Canvas endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockCanvas is a configurable mock Canvas API server.
type MockCanvas struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	// Tracking
	RequestCount      int
	LastAuthorization string
	LastQuery         map[string][]string
}

// NewMockCanvas creates a new mock Canvas server.
func NewMockCanvas() *MockCanvas {
	mock := &MockCanvas{
		handlers: make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastAuthorization = r.Header.Get("Authorization")
		mock.LastQuery = r.URL.Query()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockCanvas) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockCanvas) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockCanvas) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastAuthorization = ""
	m.LastQuery = nil
}

// GetRequestCount returns the number of requests the server has received.
func (m *MockCanvas) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastAuthorization returns the Authorization header of the most recent
// request.
func (m *MockCanvas) GetLastAuthorization() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastAuthorization
}

// GetLastQuery returns the query parameters of the most recent request.
func (m *MockCanvas) GetLastQuery() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// SetHandler sets a custom handler for a specific path.
func (m *MockCanvas) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockCanvas) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if resp.Headers["Content-Type"] == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPaginated configures a path to serve pages[i] for page i+1, emitting a
// Link header with a next relation while further pages remain. Each element
// of pages must be a JSON array body.
func (m *MockCanvas) SetPaginated(path string, pages []string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			if parsed, err := strconv.Atoi(p); err == nil && parsed >= 1 {
				page = parsed
			}
		}
		if page > len(pages) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write([]byte("[]"))
			return
		}

		perPage := r.URL.Query().Get("per_page")
		current := fmt.Sprintf("%s%s?page=%d&per_page=%s", m.URL(), path, page, perPage)
		link := fmt.Sprintf(`<%s>; rel="current"`, current)
		if page < len(pages) {
			next := fmt.Sprintf("%s%s?page=%d&per_page=%s", m.URL(), path, page+1, perPage)
			link += fmt.Sprintf(`, <%s>; rel="next"`, next)
		}

		w.Header().Set("Link", link)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(pages[page-1]))
	})
}

// defaultHandler answers unknown paths with a Canvas-style 404 error body.
func (m *MockCanvas) defaultHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"errors":[{"message":"The specified resource does not exist."}]}`))
}
