package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accounts-service/internal/models"
)

// TenantMiddleware extracts the tenant ID from the X-Tenant-ID header.
// There is no default tenant fallback: requests without tenant context are
// rejected so cross-tenant reads cannot happen by omission.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader("X-Tenant-ID")
		if tenantID == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    ErrCodeTenantRequired,
					Message: "Tenant ID is required. Include X-Tenant-ID header.",
				},
			})
			c.Abort()
			return
		}

		c.Set("tenant_id", tenantID)
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context.
func GetTenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}
