package v1

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-contact-api/internal/delivery/http/response"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/apperror"
	"portfolio-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ContactOptions is fixed at construction time
type ContactOptions struct {
	// Credentials as configured for the process; empty values may be filled from the
	// query string when query credentials are allowed
	Credentials   domain.Credentials
	RequiredNames [4]string
	// AllowQueryCredentials permits the query-string fallback for every request
	AllowQueryCredentials bool
	// TrustLocalhost permits the fallback when the Host header contains "localhost"
	TrustLocalhost bool
	MaxBodyBytes   int64
}

const contactPath = "/api/contact"

type ContactHandler struct {
	contactUC domain.ContactUsecase
	limiter   domain.RateLimiter
	opts      ContactOptions
}

// NewContactHandler registers the contact route (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, contactUC domain.ContactUsecase, limiter domain.RateLimiter, opts ContactOptions) *ContactHandler {
	handler := &ContactHandler{
		contactUC: contactUC,
		limiter:   limiter,
		opts:      opts,
	}

	// Every method is routed here so wrong methods get the JSON 405 with CORS headers
	public.Any("/contact", handler.SubmitContact)
	return handler
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Relays a contact form submission to the site owner by email. Limited to 5 calls per hour per IP.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      domain.ContactRequest  true  "Contact Form Data"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      405      {object}  response.Response
// @Failure      415      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodOptions:
		c.AbortWithStatus(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		c.Header("Allow", "POST, OPTIONS")
		c.Error(apperror.MethodNotAllowed())
		return
	}

	if !strings.Contains(strings.ToLower(c.GetHeader("Content-Type")), "application/json") {
		c.Error(apperror.UnsupportedMediaType())
		return
	}

	creds, missing := ResolveCredentials(h.opts.Credentials, c.Request.URL.Query(), h.allowQuery(c.Request), h.opts.RequiredNames)
	if len(missing) > 0 {
		logger.Log.Error("Missing env vars", "missing", missing)
		c.Error(apperror.MissingConfig(missing))
		return
	}

	if !h.checkRateLimit(c) {
		c.Error(apperror.TooManyRequests())
		return
	}

	var req domain.ContactRequest
	if err := h.bindBody(c, &req); err != nil {
		c.Error(apperror.BadRequest(err))
		return
	}

	if _, err := h.contactUC.SendContactMessage(c.Request.Context(), creds, &req); err != nil {
		c.Error(classify(err))
		return
	}

	response.Success(c, http.StatusOK)
}

func (h *ContactHandler) allowQuery(r *http.Request) bool {
	if h.opts.AllowQueryCredentials {
		return true
	}
	return h.opts.TrustLocalhost && strings.Contains(r.Host, "localhost")
}

// checkRateLimit counts the call and sets the rate limit headers. Limiter errors fail open.
func (h *ContactHandler) checkRateLimit(c *gin.Context) bool {
	ip := ClientIP(c.Request)

	decision, err := h.limiter.Allow(c.Request.Context(), ip)
	if err != nil {
		logger.Log.Error("Rate limit check failed", "backend", h.limiter.Backend(), "error", err)
		return true
	}

	c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining()))
	c.Header("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC3339))

	if !decision.Allowed {
		retryAfter := int(time.Until(decision.ResetAt).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		logger.Log.Warn("Contact rate limit triggered", "count", decision.Count, "request_id", c.GetString("RequestID"))
		return false
	}
	return true
}

func (h *ContactHandler) bindBody(c *gin.Context, req *domain.ContactRequest) error {
	if h.opts.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxBodyBytes)
	}

	raw, err := c.GetRawData()
	if err != nil {
		return err
	}
	return binding.JSON.BindBody(raw, req)
}

// classify maps usecase errors to responses; provider details are forwarded as-is
func classify(err error) *apperror.AppError {
	if errors.Is(err, domain.ErrInvalidSubmission) {
		return apperror.BadRequest(err)
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) {
		return apperror.Upstream(providerErr.StatusCode, providerErr.Message, providerErr.Details, err)
	}
	return apperror.Upstream(0, err.Error(), nil, err)
}

// ClientIP returns the first X-Forwarded-For entry, else the transport address, else "unknown"
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
