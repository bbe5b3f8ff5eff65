package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLimiter(t *testing.T) {
	t.Run("custom configuration", func(t *testing.T) {
		l := NewLimiter(Config{RequestsPerSecond: 3.0, BurstSize: 7})
		require.NotNil(t, l)
		assert.InDelta(t, 3.0, float64(l.limiter.Limit()), 1e-9)
		assert.Equal(t, 7, l.limiter.Burst())
	})

	t.Run("zero values fall back to defaults", func(t *testing.T) {
		l := NewLimiter(Config{})
		require.NotNil(t, l)
		assert.InDelta(t, DefaultConfig.RequestsPerSecond, float64(l.limiter.Limit()), 1e-9)
		assert.Equal(t, DefaultConfig.BurstSize, l.limiter.Burst())
	})

	t.Run("partial configuration", func(t *testing.T) {
		l := NewLimiter(Config{RequestsPerSecond: 2.0})
		assert.InDelta(t, 2.0, float64(l.limiter.Limit()), 1e-9)
		assert.Equal(t, DefaultConfig.BurstSize, l.limiter.Burst())
	})
}

func TestLimiter_Wait(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 100, BurstSize: 5})
	ctx := context.Background()

	// Calls within the burst complete without blocking
	for i := 0; i < 5; i++ {
		err := l.Wait(ctx)
		require.NoError(t, err)
	}
}

func TestLimiter_Wait_ContextCancellation(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 1, BurstSize: 1})

	// Exhaust the burst
	err := l.Wait(context.Background())
	require.NoError(t, err)

	// A cancelled context aborts the wait for the next token
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLimiter_Wait_RespectsBackoffWindow(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 100, BurstSize: 10})
	l.RecordRateLimitError(2)

	// The backoff window outlives the context deadline, so the wait
	// must abort with the context error rather than proceed
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := l.Wait(ctx)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
}

func TestLimiter_Wait_AfterBackoffExpires(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 100, BurstSize: 10})

	// Force an already-expired backoff window
	l.mu.Lock()
	l.retryAt = time.Now().Add(-time.Second)
	l.mu.Unlock()

	err := l.Wait(context.Background())
	assert.NoError(t, err)
}

func TestLimiter_RecordRateLimitError(t *testing.T) {
	t.Run("uses the provided retry-after", func(t *testing.T) {
		l := NewLimiter(Config{})
		l.RecordRateLimitError(30)

		l.mu.Lock()
		until := time.Until(l.retryAt)
		l.mu.Unlock()

		assert.Greater(t, until, 25*time.Second)
		assert.LessOrEqual(t, until, 30*time.Second)
	})

	t.Run("non-positive retry-after defaults to a minute", func(t *testing.T) {
		l := NewLimiter(Config{})
		l.RecordRateLimitError(0)

		l.mu.Lock()
		until := time.Until(l.retryAt)
		l.mu.Unlock()

		assert.Greater(t, until, 55*time.Second)
		assert.LessOrEqual(t, until, 60*time.Second)
	})
}

func TestLimiter_ConcurrentWaits(t *testing.T) {
	l := NewLimiter(Config{RequestsPerSecond: 100, BurstSize: 10})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.Wait(ctx)
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

// TestBackoff checks the doubling schedule and its bounds. The jitter is
// random, so each attempt is sampled repeatedly against the window
// [0.75*delay, 1.25*delay).
func TestBackoff(t *testing.T) {
	tests := []struct {
		name    string
		attempt int
		delay   time.Duration
	}{
		{name: "first attempt", attempt: 1, delay: 2 * time.Second},
		{name: "second attempt doubles", attempt: 2, delay: 4 * time.Second},
		{name: "third attempt doubles again", attempt: 3, delay: 8 * time.Second},
		{name: "fourth attempt", attempt: 4, delay: 16 * time.Second},
		{name: "fifth attempt hits the cap", attempt: 5, delay: 30 * time.Second},
		{name: "later attempts stay capped", attempt: 12, delay: 30 * time.Second},
		{name: "zero attempt treated as first", attempt: 0, delay: 2 * time.Second},
		{name: "negative attempt treated as first", attempt: -3, delay: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			low := tt.delay - tt.delay/4
			high := tt.delay + tt.delay/4

			for i := 0; i < 50; i++ {
				got := Backoff(tt.attempt)
				assert.GreaterOrEqual(t, got, low)
				assert.Less(t, got, high)
			}
		})
	}
}
