package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminTokenAuth guards admin-only routes with a static API token carried in
// the X-API-Token header. An empty configured token disables the routes
// entirely rather than leaving them open.
func AdminTokenAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		provided := c.GetHeader("X-API-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rejected admin request with invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
