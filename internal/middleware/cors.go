package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures CORS for the admin dashboard and local development.
func SetupCORS(environment string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-Tenant-ID", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if environment == "production" {
		cfg.AllowOrigins = []string{"https://*.laundryops.app"}
		cfg.AllowWildcard = true
	} else {
		cfg.AllowOrigins = []string{
			"http://localhost:3000", // Operations dashboard
			"http://localhost:4200", // Admin shell app
		}
	}

	return cors.New(cfg)
}
