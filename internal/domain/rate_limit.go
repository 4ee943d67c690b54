package domain

import (
	"context"
	"time"
)

// RateDecision is the outcome of one counted call.
type RateDecision struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

// Remaining returns how many calls are left in the current window.
func (d RateDecision) Remaining() int {
	if d.Count >= d.Limit {
		return 0
	}
	return d.Limit - d.Count
}

// RateLimiter counts a call against key and reports whether it is allowed.
// Every call increments the counter, including rejected ones.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateDecision, error)
	Backend() string
}
