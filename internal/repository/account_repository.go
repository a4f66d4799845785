package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"accounts-service/internal/models"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrVersionConflict is returned when an optimistic write lost the race.
	// Retry policy belongs to the caller; the repository never retries.
	ErrVersionConflict = errors.New("account was modified concurrently")
)

// AccountRepository is the identity store consumed by the account service.
// Email and phone carry unique indexes across all tenants.
type AccountRepository interface {
	Create(account *models.Account) error
	FindByID(tenantID string, id uuid.UUID) (*models.Account, error)
	FindByEmail(email string) (*models.Account, error)
	FindByPhone(phone string) (*models.Account, error)
	EmailExists(email string) (bool, error)
	PhoneExists(phone string) (bool, error)
	// Save writes the account's mutable fields guarded by its Version column.
	// On success the in-memory Version is bumped; on a concurrent write it
	// returns ErrVersionConflict and stores nothing.
	Save(account *models.Account) error
	ListCreatedBy(tenantID string, creatorID uuid.UUID) ([]models.Account, error)
	List(tenantID string, page, limit int) ([]models.Account, *models.PaginationInfo, error)
	// DeactivateCreatedBy flips every active account created by creatorID to
	// inactive and returns how many rows changed.
	DeactivateCreatedBy(tenantID string, creatorID uuid.UUID, reason string, at time.Time) (int64, error)
	// WithTransaction runs fn against a repository bound to a single
	// database transaction; the cascade step of a deactivation uses it so
	// readers never observe the parent inactive with children still active.
	WithTransaction(fn func(txRepo AccountRepository) error) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(account *models.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	if account.Version == 0 {
		account.Version = 1
	}
	return r.db.Create(account).Error
}

func (r *accountRepository) FindByID(tenantID string, id uuid.UUID) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByEmail(email string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("email = ?", email).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) FindByPhone(phone string) (*models.Account, error) {
	var account models.Account
	err := r.db.Where("phone = ?", phone).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *accountRepository) PhoneExists(phone string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Account{}).Where("phone = ?", phone).Count(&count).Error
	return count > 0, err
}

func (r *accountRepository) Save(account *models.Account) error {
	currentVersion := account.Version
	now := time.Now()

	result := r.db.Model(&models.Account{}).
		Where("id = ? AND version = ?", account.ID, currentVersion).
		Updates(map[string]interface{}{
			"name":                account.Name,
			"phone":               account.Phone,
			"permissions":         account.Permissions,
			"is_active":           account.IsActive,
			"deactivation_reason": account.DeactivationReason,
			"deactivated_at":      account.DeactivatedAt,
			"version":             currentVersion + 1,
			"updated_at":          now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Account{}).Where("id = ?", account.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}

	account.Version = currentVersion + 1
	account.UpdatedAt = now
	return nil
}

func (r *accountRepository) ListCreatedBy(tenantID string, creatorID uuid.UUID) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Where("tenant_id = ? AND created_by_id = ?", tenantID, creatorID).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) List(tenantID string, page, limit int) ([]models.Account, *models.PaginationInfo, error) {
	var accounts []models.Account
	var total int64

	query := r.db.Model(&models.Account{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&accounts).Error; err != nil {
		return nil, nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return accounts, &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}, nil
}

func (r *accountRepository) DeactivateCreatedBy(tenantID string, creatorID uuid.UUID, reason string, at time.Time) (int64, error) {
	result := r.db.Model(&models.Account{}).
		Where("tenant_id = ? AND created_by_id = ? AND is_active = ?", tenantID, creatorID, true).
		Updates(map[string]interface{}{
			"is_active":           false,
			"deactivation_reason": reason,
			"deactivated_at":      at,
			"version":             gorm.Expr("version + 1"),
			"updated_at":          at,
		})
	return result.RowsAffected, result.Error
}

func (r *accountRepository) WithTransaction(fn func(txRepo AccountRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&accountRepository{db: tx})
	})
}
