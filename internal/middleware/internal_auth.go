package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"accounts-service/internal/models"
)

// InternalAuthMiddleware guards service-to-service routes with a shared
// API key. When no key is configured the routes are disabled outright.
func InternalAuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("X-Internal-API-Key")
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    ErrCodeUnauthorized,
					Message: "Invalid internal API key",
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
