package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"accounts-service/internal/audit"
	"accounts-service/internal/authz"
	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
)

// Guard builds route-level authorization middleware around the pure
// decision primitives. Denied attempts on guarded routes are audited.
type Guard struct {
	sink audit.Sink
}

func NewGuard(sink audit.Sink) *Guard {
	return &Guard{sink: sink}
}

// RequirePermission allows the request only when the caller holds the
// (module, action) grant.
func (g *Guard) RequirePermission(module permissions.Module, action permissions.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		g.enforce(c, authz.Authorize(GetPrincipal(c), module, action))
	}
}

// RequireAllPermissions allows the request only when every pair is granted.
func (g *Guard) RequireAllPermissions(pairs ...authz.Pair) gin.HandlerFunc {
	return func(c *gin.Context) {
		g.enforce(c, authz.RequireAll(GetPrincipal(c), pairs...))
	}
}

// RequireAnyPermission allows the request when at least one pair is granted.
func (g *Guard) RequireAnyPermission(pairs ...authz.Pair) gin.HandlerFunc {
	return func(c *gin.Context) {
		g.enforce(c, authz.RequireAny(GetPrincipal(c), pairs...))
	}
}

// RequireModuleAccess allows the request when any action in the module is granted.
func (g *Guard) RequireModuleAccess(module permissions.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		g.enforce(c, authz.RequireModuleAccess(GetPrincipal(c), module))
	}
}

func (g *Guard) enforce(c *gin.Context, decision authz.Decision) {
	if decision.Allowed {
		c.Next()
		return
	}

	switch decision.Code {
	case authz.DenyUnauthorized:
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    ErrCodeUnauthorized,
				Message: "Authentication required",
			},
		})
	case authz.DenyInvalidModuleOrAction:
		// A route registered against a pair outside the taxonomy is a bug in
		// this service, not a client problem.
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    ErrCodeInvalidModuleOrAction,
				Message: "Route is guarded by an unknown permission",
			},
		})
	default:
		g.recordDenial(c, decision)
		c.JSON(http.StatusForbidden, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    ErrCodePermissionDenied,
				Message: "Missing required permissions: " + strings.Join(decision.Missing, ", "),
				Details: map[string]interface{}{
					"missing": decision.Missing,
				},
			},
		})
	}
	c.Abort()
}

func (g *Guard) recordDenial(c *gin.Context, decision authz.Decision) {
	if g.sink == nil {
		return
	}
	principal := GetPrincipal(c)
	event := audit.Event{
		Action:       audit.ActionPermissionDenied,
		Category:     "rbac",
		Description:  "Denied " + c.Request.Method + " " + c.FullPath(),
		ResourceType: "route",
		Status:       audit.StatusDenied,
		RiskLevel:    audit.RiskMedium,
		Metadata: map[string]interface{}{
			"missing": decision.Missing,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		},
		Timestamp: time.Now().UTC(),
	}
	if principal != nil {
		actorID := principal.ID
		event.ActorID = &actorID
		event.ActorType = string(principal.Role)
		event.TenantID = principal.TenantID
	}
	g.sink.Record(c.Request.Context(), event)
}
