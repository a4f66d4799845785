package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"accounts-service/internal/middleware"
	"accounts-service/internal/models"
	"accounts-service/internal/repository"
)

// AuditHandler exposes the audit trail. Listing is guarded by settings.view
// at the route level.
type AuditHandler struct {
	repo            repository.AuditRepository
	defaultPageSize int
	maxPageSize     int
}

func NewAuditHandler(repo repository.AuditRepository, defaultPageSize, maxPageSize int) *AuditHandler {
	return &AuditHandler{
		repo:            repo,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ListAuditLogs handles GET /audit-logs
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	filters := map[string]interface{}{}
	for _, field := range []string{"action", "status", "resource_type", "risk_level", "actor_id", "resource_id"} {
		if value := c.Query(field); value != "" {
			filters[field] = value
		}
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.Error(middleware.NewValidationError("from must be RFC3339"))
			c.Abort()
			return
		}
		filters["from"] = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.Error(middleware.NewValidationError("to must be RFC3339"))
			c.Abort()
			return
		}
		filters["to"] = t
	}

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

	logs, pagination, err := h.repo.ListAuditLogs(middleware.GetTenantID(c), filters, page, limit)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, models.AuditListResponse{
		Success:    true,
		Data:       logs,
		Pagination: pagination,
	})
}
