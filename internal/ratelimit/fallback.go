package ratelimit

import (
	"context"

	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/logger"
)

// FallbackLimiter uses primary and fails open to secondary when primary errors.
// Availability of the contact form wins over strict counting.
type FallbackLimiter struct {
	primary   domain.RateLimiter
	secondary domain.RateLimiter
}

func NewFallbackLimiter(primary, secondary domain.RateLimiter) *FallbackLimiter {
	return &FallbackLimiter{primary: primary, secondary: secondary}
}

func (l *FallbackLimiter) Allow(ctx context.Context, key string) (domain.RateDecision, error) {
	decision, err := l.primary.Allow(ctx, key)
	if err == nil {
		return decision, nil
	}

	logger.Log.Warn("Rate limiter primary backend failed, using fallback",
		"backend", l.primary.Backend(),
		"fallback", l.secondary.Backend(),
		"error", err,
	)
	return l.secondary.Allow(ctx, key)
}

func (l *FallbackLimiter) Backend() string {
	return l.primary.Backend() + "+" + l.secondary.Backend()
}
