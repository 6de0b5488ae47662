// Package ratelimit throttles login attempts with fixed-window counters kept in
// Redis when available and in process memory otherwise.
package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// RetryAfter is the wait until the current window closes, rounded up to a
// whole second.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Reset.IsZero() || !r.Reset.After(now) {
		return 0
	}
	wait := r.Reset.Sub(now)
	if rem := wait % time.Second; rem != 0 {
		wait += time.Second - rem
	}
	return wait
}

// Limiter provides rate limit checks over fixed windows of the given length.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error)
}

// windowStart returns the start of the window containing now and its reset
// time.
func windowStart(now time.Time, window time.Duration) (int64, time.Time) {
	if window < time.Second {
		window = time.Second
	}
	size := int64(window / time.Second)
	start := now.Unix() / size * size
	return start, time.Unix(start+size, 0).UTC()
}
