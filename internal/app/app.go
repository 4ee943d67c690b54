// Package app wires configuration, providers and the router for both entry points.
package app

import (
	"context"
	"time"

	"portfolio-contact-api/config"
	v1 "portfolio-contact-api/internal/delivery/http/v1"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/internal/ratelimit"
	"portfolio-contact-api/internal/usecase"
	"portfolio-contact-api/pkg/email"
	"portfolio-contact-api/pkg/logger"
	redisclient "portfolio-contact-api/pkg/redis"
	"portfolio-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:contact:"

type App struct {
	Router  *gin.Engine
	Limiter domain.RateLimiter
	Sender  domain.Sender

	redis *goredis.Client
}

// New builds the application. A Redis outage at startup is not fatal: the limiter
// falls back to process memory.
func New(ctx context.Context, cfg *config.Config) *App {
	gin.SetMode(cfg.GinMode)

	a := &App{}
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	memory := ratelimit.NewMemoryLimiter(cfg.RateLimitMax, window)
	a.Limiter = memory

	checks := map[string]usecase.Checker{}
	if cfg.UpstashRedisURL != "" {
		client, err := redisclient.NewClient(ctx, redisclient.Config{
			URL:      cfg.UpstashRedisURL,
			Password: cfg.UpstashRedisPassword,
		})
		if err != nil {
			logger.Log.Warn("Redis unavailable, rate limiting will use in-memory store", "error", err)
		} else {
			a.redis = client
			redisLimiter := ratelimit.NewRedisLimiter(client, cfg.RateLimitMax, window, rateLimitKeyPrefix)
			a.Limiter = ratelimit.NewFallbackLimiter(redisLimiter, memory)
			checks["redis"] = func(ctx context.Context) error {
				return redisclient.HealthCheck(ctx, client)
			}
		}
	}

	a.Sender = email.NewSender(cfg)

	contactUC := usecase.NewContactUsecase(a.Sender, validation.New(), cfg.SubjectPrefix)
	healthUC := usecase.NewHealthUsecase(a.Sender.Name(), a.Limiter.Backend(), checks)

	a.Router = v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Limiter:   a.Limiter,
		Config:    cfg,
	})

	logger.Log.Info("Contact relay configured",
		"email_provider", a.Sender.Name(),
		"rate_limiter", a.Limiter.Backend(),
		"rate_limit_max", cfg.RateLimitMax,
		"rate_limit_window", window.String(),
		"query_credentials", cfg.AllowQueryCredentials,
		"swagger", cfg.SwaggerEnabled,
	)
	return a
}

// Close releases the Redis connection, if any
func (a *App) Close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}
