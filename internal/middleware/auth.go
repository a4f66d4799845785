package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"accounts-service/internal/authz"
	"accounts-service/internal/cache"
	"accounts-service/internal/repository"
	"accounts-service/internal/services"
)

const principalKey = "principal"

// AuthMiddleware authenticates the bearer token and loads the caller's
// current permission snapshot. The token carries identity only; permissions
// are resolved per request (cache first, then the store) so grant changes
// and deactivations take effect immediately rather than at token expiry.
func AuthMiddleware(auth *services.AuthService, repo repository.AccountRepository, permCache *cache.PermissionCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Error(NewUnauthorizedError("Missing bearer token"))
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.Error(NewUnauthorizedError("Invalid or expired token"))
			c.Abort()
			return
		}

		accountID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.Error(NewUnauthorizedError("Invalid token subject"))
			c.Abort()
			return
		}

		tenantID := GetTenantID(c)
		if tenantID != claims.TenantID {
			c.Error(NewUnauthorizedError("Token does not belong to this tenant"))
			c.Abort()
			return
		}

		principal, active, err := resolvePrincipal(c, repo, permCache, tenantID, accountID)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		if !active {
			c.Error(CustomError{
				Code:       ErrCodeAccountDeactivated,
				Message:    "Account is deactivated",
				StatusCode: 403,
			})
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func resolvePrincipal(c *gin.Context, repo repository.AccountRepository, permCache *cache.PermissionCache, tenantID string, accountID uuid.UUID) (*authz.Principal, bool, error) {
	ctx := c.Request.Context()

	if permCache != nil {
		if cached, err := permCache.Get(ctx, tenantID, accountID); err == nil && cached != nil {
			return &authz.Principal{
				ID:          cached.AccountID,
				TenantID:    cached.TenantID,
				Role:        cached.Role,
				Permissions: cached.Permissions,
			}, cached.IsActive, nil
		}
	}

	account, err := repo.FindByID(tenantID, accountID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, false, NewUnauthorizedError("Account no longer exists")
		}
		return nil, false, err
	}

	if permCache != nil {
		_ = permCache.Set(ctx, tenantID, accountID, &cache.CachedPrincipal{
			AccountID:   account.ID,
			TenantID:    account.TenantID,
			Role:        account.Role,
			Permissions: account.Permissions,
			BranchID:    account.BranchID,
			IsActive:    account.IsActive,
		})
	}

	return &authz.Principal{
		ID:          account.ID,
		TenantID:    account.TenantID,
		Role:        account.Role,
		Permissions: account.Permissions,
	}, account.IsActive, nil
}

// GetPrincipal retrieves the authenticated principal, or nil when the route
// skipped authentication.
func GetPrincipal(c *gin.Context) *authz.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*authz.Principal)
	if !ok {
		return nil
	}
	return principal
}
