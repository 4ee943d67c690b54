// Package ratelimit implements the fixed-window counters used by the contact endpoint.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"portfolio-contact-api/internal/domain"
)

// windowEntry tracks the calls seen for a key in its current window
type windowEntry struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter keeps counters for the lifetime of the process. Entries are never evicted,
// which is acceptable for a single low-traffic instance.
type MemoryLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*windowEntry
}

// Option configures a MemoryLimiter
type Option func(*MemoryLimiter)

// WithClock replaces time.Now, used by tests to advance the window
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLimiter) {
		l.now = now
	}
}

func NewMemoryLimiter(limit int, window time.Duration, opts ...Option) *MemoryLimiter {
	l := &MemoryLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		entries: make(map[string]*windowEntry),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow increments the counter for key, starting a new window when the previous one has elapsed
func (l *MemoryLimiter) Allow(_ context.Context, key string) (domain.RateDecision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok {
		entry = &windowEntry{windowStart: now}
		l.entries[key] = entry
	}

	// Reset if window expired
	if now.Sub(entry.windowStart) > l.window {
		entry.count = 0
		entry.windowStart = now
	}

	entry.count++

	return domain.RateDecision{
		Allowed: entry.count <= l.limit,
		Count:   entry.count,
		Limit:   l.limit,
		ResetAt: entry.windowStart.Add(l.window),
	}, nil
}

func (l *MemoryLimiter) Backend() string {
	return "memory"
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
