// Package ratelimit provides client-side rate limiting and backoff for
// the AI provider adapters. It uses a token bucket for sustained rate
// and a shared retry-at window after 429 responses, so concurrent
// workers back off together instead of hammering an already throttled
// endpoint.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Backoff bounds for retried provider calls.
const (
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = 30 * time.Second
)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultConfig is conservative enough for free-tier OpenAI accounts.
var DefaultConfig = Config{RequestsPerSecond: 5.0, BurstSize: 10}

// Limiter provides rate limiting for provider API requests.
// It uses a token bucket algorithm with backoff after 429 responses.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewLimiter creates a rate limiter with the given configuration.
// Zero-value fields fall back to DefaultConfig.
func NewLimiter(cfg Config) *Limiter {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultConfig.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultConfig.BurstSize
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Wait blocks until a request can be made without exceeding the rate
// limit. It also respects any backoff period set by RecordRateLimitError.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordRateLimitError records a 429 response and sets a backoff period.
func (l *Limiter) RecordRateLimitError(retryAfterSeconds int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if retryAfterSeconds <= 0 {
		retryAfterSeconds = 60
	}

	l.retryAt = time.Now().Add(time.Duration(retryAfterSeconds) * time.Second)
}

// Backoff returns the delay before retry attempt n (1-based), doubling
// from the base delay and capped, with ±25% jitter so retrying workers
// spread out.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := baseRetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			delay = maxRetryDelay
			break
		}
	}

	jitter := time.Duration(rand.Int63n(int64(delay) / 2)) //nolint:gosec // jitter, not crypto
	return delay - delay/4 + jitter
}
