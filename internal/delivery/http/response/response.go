package response

import (
	"github.com/gin-gonic/gin"
)

// Response is the body every contact endpoint answer uses
type Response struct {
	OK      bool        `json:"ok"`
	Error   string      `json:"error,omitempty"`
	Missing []string    `json:"missing,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success sends {"ok": true}
func Success(c *gin.Context, code int) {
	c.JSON(code, Response{OK: true})
}

// Error sends {"ok": false, ...}; empty fields are omitted
func Error(c *gin.Context, code int, message string, missing []string, details interface{}) {
	c.JSON(code, Response{
		OK:      false,
		Error:   message,
		Missing: missing,
		Details: details,
	})
}

// Data sends an arbitrary JSON document, used by the health endpoint
func Data(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}
