// Command canvas-proxy exposes the Canvas client over HTTP: a GET
// passthrough under /api/, cache administration, health and metrics.
package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/canvastools/canvas-lms-client/pkg/client"
	"github.com/canvastools/canvas-lms-client/pkg/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// proxyConfig is the environment-driven bootstrap configuration.
type proxyConfig struct {
	BaseURL   string
	Token     string
	Port      string
	LogLevel  string
	LogPretty bool
}

// loadConfig reads configuration from the environment with defaults.
func loadConfig() proxyConfig {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	return proxyConfig{
		BaseURL:   v.GetString("CANVAS_BASE_URL"),
		Token:     v.GetString("CANVAS_API_TOKEN"),
		Port:      v.GetString("PORT"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogPretty: v.GetBool("LOG_PRETTY"),
	}
}

func main() {
	cfg := loadConfig()
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	canvasClient, err := client.New(client.DefaultConfig(cfg.BaseURL, cfg.Token))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create Canvas client")
	}

	router := newRouter(canvasClient)

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Str("base_url", cfg.BaseURL).
		Msg("Starting canvas-proxy")

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// newRouter builds the HTTP surface around a Canvas client.
func newRouter(c *client.Client) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)

	r.Get("/healthz", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/cache/stats", cacheStatsHandler(c))
	r.Delete("/cache", cacheClearHandler(c))
	r.Get("/api/*", proxyHandler(c))

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// cacheStatsHandler reports the live cache key set without touching the
// upstream.
func cacheStatsHandler(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c.CacheStats())
	}
}

func cacheClearHandler(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		c.ClearCache()
		w.WriteHeader(http.StatusNoContent)
	}
}

// proxyHandler forwards GET requests through the client pipeline, so
// proxied calls share the process-wide rate limiter.
func proxyHandler(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := "/" + chi.URLParam(r, "*")

		data, err := c.GetRaw(r.Context(), path, r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(data)
	}
}

// writeError maps client failures onto proxy responses: upstream errors
// keep their status, local throttling becomes 503, anything else 502.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		http.Error(w, apiErr.Error(), apiErr.StatusCode)
	case errors.Is(err, client.ErrRateLimited):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}
