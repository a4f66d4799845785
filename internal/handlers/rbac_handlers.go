package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accounts-service/internal/authz"
	"accounts-service/internal/middleware"
	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
)

// RBACHandler exposes the permission taxonomy, the preset registry and the
// subset validator as read-only endpoints for admin UIs.
type RBACHandler struct{}

func NewRBACHandler() *RBACHandler {
	return &RBACHandler{}
}

// ListModules handles GET /rbac/modules. It returns the full taxonomy so
// permission editors never hardcode the module/action matrix.
func (h *RBACHandler) ListModules(c *gin.Context) {
	type moduleInfo struct {
		Module  permissions.Module   `json:"module"`
		Actions []permissions.Action `json:"actions"`
	}

	modules := make([]moduleInfo, 0, len(permissions.Modules()))
	for _, m := range permissions.Modules() {
		modules = append(modules, moduleInfo{Module: m, Actions: permissions.ActionsFor(m)})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": modules})
}

// ListPresets handles GET /rbac/presets
func (h *RBACHandler) ListPresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": permissions.ListPresets()})
}

// GetPreset handles GET /rbac/presets/:key
func (h *RBACHandler) GetPreset(c *gin.Context) {
	preset, ok := permissions.GetPreset(permissions.PresetKey(c.Param("key")))
	if !ok {
		c.Error(middleware.NewNotFoundError("Preset"))
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": preset})
}

// ValidateSubsetRequest carries a candidate set to preview against the
// caller's own permissions before submitting a staff creation.
type ValidateSubsetRequest struct {
	Permissions permissions.Set `json:"permissions" binding:"required"`
}

// ValidateSubset handles POST /rbac/validate. It runs the same subset check
// the staff creation path enforces, so UIs can surface violations early.
func (h *RBACHandler) ValidateSubset(c *gin.Context) {
	var req ValidateSubsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewValidationError(err.Error()))
		c.Abort()
		return
	}

	principal := middleware.GetPrincipal(c)
	if principal == nil {
		c.Error(middleware.NewUnauthorizedError("Authentication required"))
		c.Abort()
		return
	}

	parent := principal.Permissions
	if principal.Role == models.RoleSuperAdmin {
		parent = permissions.FullSet()
	}

	result := permissions.IsSubset(parent, req.Permissions.Normalize())
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// CheckPermissionRequest asks whether the caller holds one grant.
type CheckPermissionRequest struct {
	Module permissions.Module `json:"module" binding:"required"`
	Action permissions.Action `json:"action" binding:"required"`
}

// CheckPermission handles POST /rbac/check
func (h *RBACHandler) CheckPermission(c *gin.Context) {
	var req CheckPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewValidationError(err.Error()))
		c.Abort()
		return
	}

	decision := authz.Authorize(middleware.GetPrincipal(c), req.Module, req.Action)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": decision})
}
