package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "studentwallet/internal/errors"
)

// ErrInvalidAPIKey is returned when a shared-secret header does not match.
var ErrInvalidAPIKey = &apperrors.AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}

// APIKeyMiddleware checks the X-API-Key header against apiKey using a
// constant-time compare. An empty apiKey leaves the route open, which is how
// the platform webhook runs when no shared secret has been provisioned.
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			abortWithAppError(c, ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
