package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *config.Config {
	return &config.Config{
		GinMode:                gin.TestMode,
		AllowedOrigin:          "*",
		EmailProvider:          config.ProviderMailjet,
		MailjetBaseURL:         "http://127.0.0.1:1",
		FromName:               "Site",
		ContactToName:          "Contato",
		RateLimitWindowSeconds: 3600,
		RateLimitMax:           5,
		ProviderTimeoutSeconds: 1,
		MaxBodyBytes:           64 * 1024,
	}
}

func TestNew_InMemory(t *testing.T) {
	a := app.New(context.Background(), baseConfig())
	defer a.Close()

	assert.Equal(t, "memory", a.Limiter.Backend())
	assert.Equal(t, "mailjet", a.Sender.Name())

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rate_limiter":"memory"`)
}

func TestNew_RedisUnavailable(t *testing.T) {
	cfg := baseConfig()
	cfg.UpstashRedisURL = "redis://127.0.0.1:1"
	cfg.EmailProvider = config.ProviderSMTP

	a := app.New(context.Background(), cfg)
	defer a.Close()

	assert.Equal(t, "memory", a.Limiter.Backend())
	assert.Equal(t, "smtp", a.Sender.Name())
}

func TestNew_SwaggerToggle(t *testing.T) {
	cfg := baseConfig()
	a := app.New(context.Background(), cfg)

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
