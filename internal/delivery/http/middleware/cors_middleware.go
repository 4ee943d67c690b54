package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware adds CORS headers for the portfolio front end.
//
// allowedOrigin is "*", a single origin, or a comma-separated list. A single origin is
// always sent; with a list only a matching request Origin is echoed back.
// Preflight requests are answered by the contact handler itself.
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	origins := parseOrigins(allowedOrigin)

	return func(c *gin.Context) {
		switch {
		case len(origins) == 0:
			c.Header("Access-Control-Allow-Origin", "*")
		case len(origins) == 1:
			c.Header("Access-Control-Allow-Origin", origins[0])
		default:
			origin := c.Request.Header.Get("Origin")
			for _, allowed := range origins {
				if origin == allowed {
					c.Header("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		if len(origins) > 0 && origins[0] != "*" {
			// Vary header to ensure caches differentiate by Origin
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")

		c.Next()
	}
}

func parseOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
