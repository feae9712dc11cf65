package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const headerAPIKey = "X-API-Key"

// APIKey accepts the static key from X-API-Key or an Authorization bearer token.
func APIKey(key string) gin.HandlerFunc {
	expected := []byte(key)
	return func(c *gin.Context) {
		provided := strings.TrimSpace(c.GetHeader(headerAPIKey))
		if provided == "" {
			auth := c.GetHeader("Authorization")
			if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
				provided = strings.TrimSpace(token)
			}
		}

		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
			return
		}
		c.Next()
	}
}
