package middleware

import (
	"errors"
	"net/http"

	"portfolio-contact-api/internal/delivery/http/response"
	"portfolio-contact-api/pkg/apperror"
	"portfolio-contact-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error recorded with c.Error as the JSON response
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		requestID := c.GetString(RequestIDKey)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed",
					"status", appErr.Code,
					"error", appErr.Error(),
					"path", c.Request.URL.Path,
					"request_id", requestID,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Missing, appErr.Details)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("Internal Server Error", "error", err, "request_id", requestID)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil, nil)
	}
}
