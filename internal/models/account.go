package models

import (
	"time"

	"github.com/google/uuid"

	"accounts-service/internal/permissions"
)

// AccountRole represents the tier of an account in the creation hierarchy
type AccountRole string

const (
	RoleSuperAdmin  AccountRole = "super_admin"
	RoleAdmin       AccountRole = "admin"
	RoleCenterAdmin AccountRole = "center_admin"
	RoleStaff       AccountRole = "staff"
)

// IsAdminTier reports whether the role sits on the admin level of the
// hierarchy (may own staff accounts).
func (r AccountRole) IsAdminTier() bool {
	return r == RoleAdmin || r == RoleCenterAdmin
}

// Account represents an operator account: super admin, admin/center admin or staff.
// Accounts are never hard-deleted; deactivation flips IsActive.
type Account struct {
	ID                 uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID           string          `json:"tenantId" gorm:"not null;index"`
	Name               string          `json:"name" gorm:"not null"`
	Email              string          `json:"email" gorm:"not null;uniqueIndex:idx_accounts_email"`
	Phone              string          `json:"phone" gorm:"not null;uniqueIndex:idx_accounts_phone"`
	PasswordHash       string          `json:"-" gorm:"column:password_hash;not null"`
	Role               AccountRole     `json:"role" gorm:"not null;index"`
	Permissions        permissions.Set `json:"permissions" gorm:"type:jsonb"`
	BranchID           *uuid.UUID      `json:"branchId,omitempty" gorm:"type:uuid;index"`
	CreatedByID        *uuid.UUID      `json:"createdBy,omitempty" gorm:"column:created_by_id;type:uuid;index"`
	IsActive           bool            `json:"isActive" gorm:"not null;default:true"`
	IsEmailVerified    bool            `json:"isEmailVerified" gorm:"not null;default:false"`
	DeactivationReason *string         `json:"deactivationReason,omitempty"`
	DeactivatedAt      *time.Time      `json:"deactivatedAt,omitempty"`

	// Version supports optimistic concurrency on permission writes.
	// Last-write-wins is not acceptable here: a lost update could silently
	// widen a staff set past its admin's.
	Version   int       `json:"-" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relationships
	CreatedByAccount *Account  `json:"createdByAccount,omitempty" gorm:"foreignKey:CreatedByID"`
	CreatedAccounts  []Account `json:"createdAccounts,omitempty" gorm:"foreignKey:CreatedByID"`
}

func (Account) TableName() string {
	return "accounts"
}

// CreateAccountRequest represents a request to provision a subordinate
// account. The created kind is fixed by the endpoint, never by the payload.
type CreateAccountRequest struct {
	Name        string          `json:"name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	Phone       string          `json:"phone" binding:"required"`
	Password    string          `json:"password" binding:"required,min=8"`
	Permissions permissions.Set `json:"permissions,omitempty"`
	// PresetKey optionally applies a preset template instead of an explicit set.
	PresetKey *permissions.PresetKey `json:"presetKey,omitempty"`
	// BranchID is honored for admin-tier creation only; staff always inherit
	// the creating admin's branch.
	BranchID *uuid.UUID `json:"branchId,omitempty"`
}

// UpdatePermissionsRequest replaces an account's stored permission set.
type UpdatePermissionsRequest struct {
	Permissions permissions.Set `json:"permissions" binding:"required"`
}

// DeactivateRequest carries the reason recorded with a deactivation.
type DeactivateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DeactivateResult reports the outcome of a deactivation, including how
// many created accounts were cascaded in the same operation.
type DeactivateResult struct {
	Account       *Account `json:"account"`
	CascadedCount int      `json:"cascadedCount"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// AccountResponse represents a single account response
type AccountResponse struct {
	Success bool     `json:"success"`
	Data    *Account `json:"data"`
	Message *string  `json:"message,omitempty"`
}

// AccountListResponse represents a list of accounts response
type AccountListResponse struct {
	Success    bool            `json:"success"`
	Data       []Account       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

// DeactivateResponse represents a deactivation response
type DeactivateResponse struct {
	Success bool              `json:"success"`
	Data    *DeactivateResult `json:"data"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Error represents error details
type Error struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
