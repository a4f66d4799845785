package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"accounts-service/internal/authz"
	"accounts-service/internal/middleware"
	"accounts-service/internal/models"
	"accounts-service/internal/services"
)

// AccountHandler exposes the account hierarchy over HTTP. All authorization
// beyond route guards (created-by chain, subset validation) lives in the
// service; handlers only bind, delegate and render.
type AccountHandler struct {
	service         *services.AccountService
	defaultPageSize int
	maxPageSize     int
}

func NewAccountHandler(service *services.AccountService, defaultPageSize, maxPageSize int) *AccountHandler {
	return &AccountHandler{
		service:         service,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// CreateAdmin handles POST /accounts/admins
func (h *AccountHandler) CreateAdmin(c *gin.Context) {
	h.create(c, h.service.CreateAdmin)
}

// CreateCenterAdmin handles POST /accounts/center-admins
func (h *AccountHandler) CreateCenterAdmin(c *gin.Context) {
	h.create(c, h.service.CreateCenterAdmin)
}

// CreateStaff handles POST /accounts/staff
func (h *AccountHandler) CreateStaff(c *gin.Context) {
	h.create(c, h.service.CreateStaff)
}

func (h *AccountHandler) create(c *gin.Context, op func(context.Context, *authz.Principal, models.CreateAccountRequest) (*models.Account, error)) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewValidationError(err.Error()))
		c.Abort()
		return
	}

	account, err := op(c.Request.Context(), middleware.GetPrincipal(c), req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, models.AccountResponse{Success: true, Data: account})
}

// GetAccount handles GET /accounts/:id
func (h *AccountHandler) GetAccount(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(middleware.NewValidationError("Invalid account id"))
		c.Abort()
		return
	}

	account, err := h.service.GetAccount(c.Request.Context(), middleware.GetPrincipal(c), targetID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.AccountResponse{Success: true, Data: account})
}

// ListAccounts handles GET /accounts
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	page, limit := h.pagination(c)

	accounts, pagination, err := h.service.ListAccounts(c.Request.Context(), middleware.GetPrincipal(c), page, limit)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.AccountListResponse{
		Success:    true,
		Data:       accounts,
		Pagination: pagination,
	})
}

// ListSubordinates handles GET /accounts/subordinates
func (h *AccountHandler) ListSubordinates(c *gin.Context) {
	accounts, err := h.service.ListSubordinates(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.AccountListResponse{Success: true, Data: accounts})
}

// UpdatePermissions handles PUT /accounts/:id/permissions
func (h *AccountHandler) UpdatePermissions(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(middleware.NewValidationError("Invalid account id"))
		c.Abort()
		return
	}

	var req models.UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewValidationError(err.Error()))
		c.Abort()
		return
	}

	account, err := h.service.UpdatePermissions(c.Request.Context(), middleware.GetPrincipal(c), targetID, req.Permissions)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.AccountResponse{Success: true, Data: account})
}

// Deactivate handles POST /accounts/:id/deactivate
func (h *AccountHandler) Deactivate(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(middleware.NewValidationError("Invalid account id"))
		c.Abort()
		return
	}

	var req models.DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewValidationError("Deactivation reason is required"))
		c.Abort()
		return
	}

	result, err := h.service.Deactivate(c.Request.Context(), middleware.GetPrincipal(c), targetID, req.Reason)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.DeactivateResponse{Success: true, Data: result})
}

// Reactivate handles POST /accounts/:id/reactivate
func (h *AccountHandler) Reactivate(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(middleware.NewValidationError("Invalid account id"))
		c.Abort()
		return
	}

	account, err := h.service.Reactivate(c.Request.Context(), middleware.GetPrincipal(c), targetID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.AccountResponse{Success: true, Data: account})
}

// BootstrapSuperAdmin handles POST /internal/bootstrap. The route is guarded
// by the internal API key middleware, not by a bearer token.
func (h *AccountHandler) BootstrapSuperAdmin(c *gin.Context) {
	var req models.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(middleware.NewValidationError(err.Error()))
		c.Abort()
		return
	}

	account, err := h.service.BootstrapSuperAdmin(c.Request.Context(), middleware.GetTenantID(c), req)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, models.AccountResponse{Success: true, Data: account})
}

func (h *AccountHandler) pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(h.defaultPageSize)))
	if err != nil || limit < 1 {
		limit = h.defaultPageSize
	}
	if limit > h.maxPageSize {
		limit = h.maxPageSize
	}
	return page, limit
}
