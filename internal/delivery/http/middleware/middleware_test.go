package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-contact-api/internal/delivery/http/middleware"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	return r
}

func perform(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSMiddleware(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	t.Run("Should allow any origin by default", func(t *testing.T) {
		r := setupRouter(middleware.CORSMiddleware("*"))
		r.POST("/x", ok)

		w := perform(r, http.MethodPost, "/x", map[string]string{"Origin": "https://a.example"})

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
		assert.Equal(t, "POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Empty(t, w.Header().Get("Vary"))
	})

	t.Run("Should treat an empty value as any origin", func(t *testing.T) {
		r := setupRouter(middleware.CORSMiddleware(""))
		r.POST("/x", ok)

		w := perform(r, http.MethodPost, "/x", nil)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Should always send a single configured origin", func(t *testing.T) {
		r := setupRouter(middleware.CORSMiddleware("https://portfolio.example/"))
		r.POST("/x", ok)

		w := perform(r, http.MethodPost, "/x", map[string]string{"Origin": "https://other.example"})

		assert.Equal(t, "https://portfolio.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("Should echo only listed origins", func(t *testing.T) {
		r := setupRouter(middleware.CORSMiddleware("https://a.example, https://b.example"))
		r.POST("/x", ok)

		w := perform(r, http.MethodPost, "/x", map[string]string{"Origin": "https://b.example"})
		assert.Equal(t, "https://b.example", w.Header().Get("Access-Control-Allow-Origin"))

		w = perform(r, http.MethodPost, "/x", map[string]string{"Origin": "https://evil.example"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	r := setupRouter(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) {
		fromCtx = domain.RequestIDFrom(c.Request.Context())
		assert.Equal(t, fromCtx, c.GetString(middleware.RequestIDKey))
		c.Status(http.StatusOK)
	})

	t.Run("Should generate an id", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/x", nil)

		id := w.Header().Get(middleware.RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, fromCtx)
	})

	t.Run("Should keep a caller supplied id", func(t *testing.T) {
		w := perform(r, http.MethodGet, "/x", map[string]string{middleware.RequestIDHeader: "trace-123"})

		assert.Equal(t, "trace-123", w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "trace-123", fromCtx)
	})

	t.Run("Should replace an oversized id", func(t *testing.T) {
		long := strings.Repeat("a", 65)
		w := perform(r, http.MethodGet, "/x", map[string]string{middleware.RequestIDHeader: long})

		assert.NotEqual(t, long, w.Header().Get(middleware.RequestIDHeader))
		assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
	})
}

func TestErrorHandler(t *testing.T) {
	r := setupRouter(middleware.RequestID(), middleware.ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		c.Error(apperror.MissingConfig([]string{"CONTACT_TO"}))
	})
	r.GET("/bad", func(c *gin.Context) {
		c.Error(apperror.BadRequest(errors.New("unexpected EOF")))
	})
	r.GET("/upstream", func(c *gin.Context) {
		c.Error(apperror.Upstream(http.StatusBadRequest, "Invalid sender", []interface{}{"From"}, nil))
	})
	r.GET("/plain", func(c *gin.Context) {
		c.Error(errors.New("database exploded"))
	})
	r.GET("/written", func(c *gin.Context) {
		c.JSON(http.StatusTeapot, gin.H{"ok": true})
		c.Error(apperror.Internal(errors.New("late")))
	})

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/missing", http.StatusInternalServerError, `{"ok":false,"error":"Missing environment variables","missing":["CONTACT_TO"]}`},
		{"/bad", http.StatusBadRequest, `{"ok":false}`},
		{"/upstream", http.StatusBadRequest, `{"ok":false,"error":"Invalid sender","details":["From"]}`},
		{"/plain", http.StatusInternalServerError, `{"ok":false,"error":"An unexpected error occurred. Please try again later."}`},
		{"/written", http.StatusTeapot, `{"ok":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := perform(r, http.MethodGet, tt.path, nil)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
			assert.NotContains(t, w.Body.String(), "database exploded")
		})
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	r := setupRouter(middleware.SecurityHeadersMiddleware())
	r.POST("/api/contact", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodPost, "/api/contact", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))

	w = perform(r, http.MethodGet, "/api/swagger/index.html", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}
