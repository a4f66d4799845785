package repository

import (
	"time"

	"gorm.io/gorm"

	"accounts-service/internal/models"
)

// AuditRepository persists and queries audit log entries.
type AuditRepository interface {
	CreateAuditLog(log *models.AuditLog) error
	ListAuditLogs(tenantID string, filters map[string]interface{}, page, limit int) ([]models.AuditLog, *models.PaginationInfo, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateAuditLog(log *models.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	return r.db.Create(log).Error
}

func (r *auditRepository) ListAuditLogs(tenantID string, filters map[string]interface{}, page, limit int) ([]models.AuditLog, *models.PaginationInfo, error) {
	var logs []models.AuditLog
	var total int64

	query := r.db.Model(&models.AuditLog{}).Where("tenant_id = ?", tenantID)
	for field, value := range filters {
		switch field {
		case "action", "status", "resource_type", "risk_level":
			query = query.Where(field+" = ?", value)
		case "actor_id", "resource_id":
			query = query.Where(field+" = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at <= ?", value)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return logs, &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}
