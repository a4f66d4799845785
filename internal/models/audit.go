package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is the persisted form of an audit event. Every sensitive account
// mutation (creation, permission change, deactivation, reactivation) and
// every authorization denial attempts a record here.
type AuditLog struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID     string         `json:"tenantId" gorm:"not null;index"`
	ActorID      *uuid.UUID     `json:"actorId,omitempty" gorm:"type:uuid;index"`
	ActorType    string         `json:"actorType"`
	Action       string         `json:"action" gorm:"not null;index"`
	Category     string         `json:"category" gorm:"not null"`
	Description  string         `json:"description"`
	ResourceType string         `json:"resourceType" gorm:"not null"`
	ResourceID   *uuid.UUID     `json:"resourceId,omitempty" gorm:"type:uuid;index"`
	Status       string         `json:"status" gorm:"not null"`
	RiskLevel    string         `json:"riskLevel"`
	Before       datatypes.JSON `json:"before,omitempty" gorm:"type:jsonb"`
	After        datatypes.JSON `json:"after,omitempty" gorm:"type:jsonb"`
	Metadata     datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "account_audit_logs"
}

// AuditListResponse represents a list of audit logs response
type AuditListResponse struct {
	Success    bool            `json:"success"`
	Data       []AuditLog      `json:"data"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}
