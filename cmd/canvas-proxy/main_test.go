package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/canvastools/canvas-lms-client/internal/testutil"
	"github.com/canvastools/canvas-lms-client/pkg/client"
)

func newTestProxy(t *testing.T) (*testutil.MockCanvas, http.Handler) {
	t.Helper()

	mock := testutil.NewMockCanvas()
	t.Cleanup(mock.Close)

	c, err := client.New(client.DefaultConfig(mock.URL(), "test-token"))
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return mock, newRouter(c)
}

func TestHealthEndpoint(t *testing.T) {
	_, router := newTestProxy(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Errorf("Body = %q, want status ok", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, router := newTestProxy(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200", w.Code)
	}
	body, _ := io.ReadAll(w.Result().Body)
	if !strings.Contains(string(body), "canvas_") {
		t.Error("Metrics output missing canvas_ collectors")
	}
}

func TestProxyPassthrough(t *testing.T) {
	mock, router := newTestProxy(t)
	mock.SetResponse("/api/v1/courses/12", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"id":12,"name":"Biology"}`,
	})

	req := httptest.NewRequest("GET", "/api/courses/12", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body %q)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Biology") {
		t.Errorf("Body = %q, want upstream payload", w.Body.String())
	}
	if mock.GetLastAuthorization() != "Bearer test-token" {
		t.Errorf("Upstream Authorization = %q, want bearer token", mock.GetLastAuthorization())
	}
}

func TestProxyMirrorsUpstreamStatus(t *testing.T) {
	_, router := newTestProxy(t)

	// The mock answers unknown paths with a Canvas-style 404.
	req := httptest.NewRequest("GET", "/api/courses/404", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404 mirrored from upstream", w.Code)
	}
	if !strings.Contains(w.Body.String(), "does not exist") {
		t.Errorf("Body = %q, want upstream error body included", w.Body.String())
	}
}

func TestCacheAdminEndpoints(t *testing.T) {
	mock, router := newTestProxy(t)
	mock.SetResponse("/api/v1/courses/12", testutil.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"id":12}`,
	})

	// The GET passthrough is uncached, so stats start and stay empty
	// until a cacheable access pattern runs; here we just exercise the
	// admin surface.
	req := httptest.NewRequest("GET", "/cache/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Stats status = %d, want 200", w.Code)
	}

	var stats struct {
		Size int      `json:"size"`
		Keys []string `json:"keys"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Stats body is not valid JSON: %v", err)
	}
	if stats.Size != len(stats.Keys) {
		t.Errorf("Stats size %d disagrees with key count %d", stats.Size, len(stats.Keys))
	}

	req = httptest.NewRequest("DELETE", "/cache", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Clear status = %d, want 204", w.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, router := newTestProxy(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("Response missing X-Request-ID header")
	}

	// A caller-supplied id is echoed back.
	req = httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set(RequestIDHeader, "caller-id-1")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "caller-id-1" {
		t.Errorf("X-Request-ID = %q, want caller-id-1", got)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := loadConfig()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("CANVAS_BASE_URL", "https://school.instructure.com")
	t.Setenv("CANVAS_API_TOKEN", "secret")
	t.Setenv("PORT", "9090")

	cfg := loadConfig()
	if cfg.BaseURL != "https://school.instructure.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Token != "secret" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
}
