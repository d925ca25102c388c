// Package ratelimit implements the token bucket that gates every outbound
// Canvas API request. Tokens refill continuously based on elapsed wall-clock
// time, so fractional steady-state rates like 0.8 tokens/second work.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for rate limit gating.
var (
	tokensAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "canvas_rate_limit_tokens",
		Help: "Tokens currently available in the rate limit bucket",
	})

	acquireWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvas_rate_limit_waits_total",
		Help: "Total number of poll sleeps while waiting for a token",
	})

	acquireTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "canvas_rate_limit_timeouts_total",
		Help: "Total number of acquire attempts that exhausted their wait ceiling",
	})
)

// Defaults stay safely under the Canvas quota of roughly 3000 requests/hour
// while still permitting short bursts.
const (
	DefaultMaxTokens  = 50.0
	DefaultRefillRate = 0.8 // tokens per second

	// Poll interval bounds for Acquire: never busy-poll faster than the
	// floor, never sleep past the ceiling even when the deficit is large.
	minPollInterval = 100 * time.Millisecond
	maxPollInterval = 1 * time.Second
)

// Bucket is a token bucket with continuous refill. One bucket gates the
// whole process; it is safe for concurrent use.
type Bucket struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time

	nowFunc func() time.Time
	logger  zerolog.Logger
}

// NewBucket creates a full bucket. Non-positive parameters fall back to the
// defaults.
func NewBucket(maxTokens, refillRate float64) *Bucket {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if refillRate <= 0 {
		refillRate = DefaultRefillRate
	}
	return &Bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
		nowFunc:    time.Now,
		logger:     log.With().Str("component", "ratelimit").Logger(),
	}
}

// refill recomputes the token count from elapsed time. Caller must hold mu.
func (b *Bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	b.tokens = math.Min(b.maxTokens, b.tokens+elapsed*b.refillRate)
	b.lastRefill = now
	tokensAvailable.Set(b.tokens)
}

// TryAcquire refills the bucket and consumes one token if at least one is
// available. It never blocks.
func (b *Bucket) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(b.nowFunc())
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	tokensAvailable.Set(b.tokens)
	return true
}

// Acquire repeatedly attempts to consume a token until it succeeds or
// maxWait elapses. Exhausting the wait is not an error condition here;
// it returns false and the caller decides what that means.
func (b *Bucket) Acquire(ctx context.Context, maxWait time.Duration) bool {
	deadline := b.nowFunc().Add(maxWait)

	for {
		if b.TryAcquire() {
			return true
		}

		now := b.nowFunc()
		if !now.Before(deadline) {
			acquireTimeoutsTotal.Inc()
			b.logger.Warn().
				Dur("max_wait", maxWait).
				Float64("tokens", b.Available()).
				Msg("Rate limit wait exhausted")
			return false
		}

		wait := b.pollInterval()
		if remaining := deadline.Sub(now); wait > remaining {
			wait = remaining
		}
		acquireWaitsTotal.Inc()

		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}
	}
}

// pollInterval estimates the sleep until the next token, clamped to
// [minPollInterval, maxPollInterval].
func (b *Bucket) pollInterval() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(b.nowFunc())
	wait := time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	if wait < minPollInterval {
		return minPollInterval
	}
	if wait > maxPollInterval {
		return maxPollInterval
	}
	return wait
}

// Available returns the current token count after a refill.
func (b *Bucket) Available() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(b.nowFunc())
	return b.tokens
}

// TimeUntilNextToken returns how long until a full token is available.
// Returns 0 when a token is available now.
func (b *Bucket) TimeUntilNextToken() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(b.nowFunc())
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}
