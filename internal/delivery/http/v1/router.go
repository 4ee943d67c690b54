package v1

import (
	"net/http"

	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/delivery/http/middleware"
	"portfolio-contact-api/internal/delivery/http/response"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/internal/usecase"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC domain.ContactUsecase
	HealthUC  usecase.HealthUsecase
	Limiter   domain.RateLimiter
	Config    *config.Config
}

// ContactOptionsFromConfig derives the handler options from the process configuration
func ContactOptionsFromConfig(cfg *config.Config) ContactOptions {
	return ContactOptions{
		Credentials: domain.Credentials{
			APIKey:    cfg.ProviderKey(),
			APISecret: cfg.ProviderSecret(),
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
			ToEmail:   cfg.ContactTo,
			ToName:    cfg.ContactToName,
		},
		RequiredNames:         cfg.RequiredNames(),
		AllowQueryCredentials: cfg.AllowQueryCredentials,
		TrustLocalhost:        cfg.TrustLocalhost,
		MaxBodyBytes:          cfg.MaxBodyBytes,
	}
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigin)) // CORS must be first!
	r.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	// Health Check
	api.GET("/health", func(c *gin.Context) {
		response.Data(c, http.StatusOK, deps.HealthUC.Check(c.Request.Context()))
	})

	// Public routes
	contact := NewContactHandler(api, deps.ContactUC, deps.Limiter, ContactOptionsFromConfig(deps.Config))

	// Any only covers the standard methods; extension methods land here
	r.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == contactPath {
			contact.SubmitContact(c)
		}
	})

	// Swagger
	if deps.Config.SwaggerEnabled {
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
