package usecase

import "context"

// Checker reports the health of one dependency; nil means healthy
type Checker func(ctx context.Context) error

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	provider string
	limiter  string
	checks   map[string]Checker
}

func NewHealthUsecase(provider, limiter string, checks map[string]Checker) HealthUsecase {
	return &healthUsecase{
		provider: provider,
		limiter:  limiter,
		checks:   checks,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{
		"status":         "ok",
		"email_provider": u.provider,
		"rate_limiter":   u.limiter,
	}
	for name, check := range u.checks {
		if err := check(ctx); err != nil {
			result[name] = "unavailable"
			result["status"] = "degraded"
			continue
		}
		result[name] = "ok"
	}
	return result
}
