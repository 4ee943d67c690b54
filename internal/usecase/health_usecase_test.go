package usecase_test

import (
	"context"
	"errors"
	"testing"

	"portfolio-contact-api/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	t.Run("Should report ok without checks", func(t *testing.T) {
		uc := usecase.NewHealthUsecase("mailjet", "memory", nil)
		assert.Equal(t, map[string]string{
			"status":         "ok",
			"email_provider": "mailjet",
			"rate_limiter":   "memory",
		}, uc.Check(context.Background()))
	})

	t.Run("Should degrade when a dependency fails", func(t *testing.T) {
		uc := usecase.NewHealthUsecase("mailjet", "redis+memory", map[string]usecase.Checker{
			"redis": func(context.Context) error { return errors.New("down") },
		})
		got := uc.Check(context.Background())
		assert.Equal(t, "degraded", got["status"])
		assert.Equal(t, "unavailable", got["redis"])
	})
}
