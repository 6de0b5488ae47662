package ratelimit

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	window int64
	count  int
}

// MemoryLimiter implements a fixed-window in-memory rate limiter.
type MemoryLimiter struct {
	mu       sync.Mutex
	counters map[string]*memoryEntry
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		counters: make(map[string]*memoryEntry),
	}
}

// Allow checks whether the request should be allowed in the current window.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	start, reset := windowStart(now, window)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep(start)
	entry := l.counters[key]
	if entry == nil {
		entry = &memoryEntry{window: start}
		l.counters[key] = entry
	}
	if entry.window != start {
		entry.window = start
		entry.count = 0
	}
	if entry.count >= limit {
		return Result{Allowed: false, Remaining: 0, Reset: reset}, nil
	}
	entry.count++
	return Result{Allowed: true, Remaining: limit - entry.count, Reset: reset}, nil
}

// sweep drops counters from closed windows so one-off client addresses do
// not accumulate.
func (l *MemoryLimiter) sweep(current int64) {
	if len(l.counters) < 1024 {
		return
	}
	for key, entry := range l.counters {
		if entry.window < current {
			delete(l.counters, key)
		}
	}
}
