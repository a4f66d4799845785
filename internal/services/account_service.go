package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"accounts-service/internal/audit"
	"accounts-service/internal/authz"
	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
	"accounts-service/internal/repository"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email is already in use")
	ErrDuplicatePhone     = errors.New("phone number is already in use")
	ErrBranchRequired     = errors.New("center admin accounts require a branch")
	ErrForbidden          = errors.New("actor is not authorized for this operation")
	ErrAlreadyDeactivated = errors.New("account is already deactivated")
	ErrAlreadyActive      = errors.New("account is already active")
	ErrUnknownPreset      = errors.New("unknown preset role")
)

// InvalidPermissionsError reports a rejected permission set: either empty or
// exceeding the creating admin's grants. Violations lists every offending
// "module.action" pair, not just the first.
type InvalidPermissionsError struct {
	Reason     string
	Violations []string
}

func (e *InvalidPermissionsError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid permissions: " + e.Reason
	}
	return fmt.Sprintf("invalid permissions: %s [%s]", e.Reason, strings.Join(e.Violations, ", "))
}

// CacheInvalidator is the slice of the permission cache the service needs
// after a mutation. A nil invalidator disables invalidation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, tenantID string, accountID uuid.UUID) error
	InvalidateAll(ctx context.Context, tenantID string) error
}

// AccountService implements the account hierarchy operations: subordinate
// creation, permission updates, cascade deactivation and reactivation.
type AccountService struct {
	repo   repository.AccountRepository
	sink   audit.Sink
	cache  CacheInvalidator
	logger *logrus.Entry
}

func NewAccountService(repo repository.AccountRepository, sink audit.Sink, cache CacheInvalidator) *AccountService {
	return &AccountService{
		repo:   repo,
		sink:   sink,
		cache:  cache,
		logger: logrus.WithField("component", "account_service"),
	}
}

// CreateAdmin provisions an admin account. Only a super admin may call it.
func (s *AccountService) CreateAdmin(ctx context.Context, actor *authz.Principal, req models.CreateAccountRequest) (*models.Account, error) {
	return s.createAdminTier(ctx, actor, req, models.RoleAdmin)
}

// CreateCenterAdmin provisions a center admin, which must be bound to a branch.
func (s *AccountService) CreateCenterAdmin(ctx context.Context, actor *authz.Principal, req models.CreateAccountRequest) (*models.Account, error) {
	return s.createAdminTier(ctx, actor, req, models.RoleCenterAdmin)
}

func (s *AccountService) createAdminTier(ctx context.Context, actor *authz.Principal, req models.CreateAccountRequest, role models.AccountRole) (*models.Account, error) {
	if actor == nil || actor.Role != models.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	if role == models.RoleCenterAdmin && req.BranchID == nil {
		return nil, ErrBranchRequired
	}

	set, err := s.resolvePermissions(req)
	if err != nil {
		return nil, err
	}
	if set.IsEmpty() {
		return nil, &InvalidPermissionsError{Reason: "permission set must grant at least one action"}
	}

	account, err := s.provision(actor, req, role, set, req.BranchID)
	if err != nil {
		return nil, err
	}

	s.recordCreation(ctx, actor, account)
	return account, nil
}

// CreateStaff provisions a staff account under the calling admin. The staff
// branch is inherited from the admin verbatim; a client-supplied branch is
// ignored. The requested permission set must be a subset of the admin's
// current set.
func (s *AccountService) CreateStaff(ctx context.Context, actor *authz.Principal, req models.CreateAccountRequest) (*models.Account, error) {
	if actor == nil || !actor.Role.IsAdminTier() {
		return nil, ErrForbidden
	}

	// Re-read the admin so the subset check runs against its current set,
	// not the snapshot minted into the principal at login.
	admin, err := s.repo.FindByID(actor.TenantID, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if admin.Permissions.IsEmpty() {
		return nil, ErrForbidden
	}

	set, err := s.resolvePermissions(req)
	if err != nil {
		return nil, err
	}
	if set.IsEmpty() {
		return nil, &InvalidPermissionsError{Reason: "permission set must grant at least one action"}
	}
	if result := permissions.IsSubset(admin.Permissions, set); !result.Valid {
		return nil, &InvalidPermissionsError{
			Reason:     "staff permissions exceed the creating admin's",
			Violations: result.Violations,
		}
	}

	account, err := s.provision(actor, req, models.RoleStaff, set, admin.BranchID)
	if err != nil {
		return nil, err
	}

	s.recordCreation(ctx, actor, account)
	return account, nil
}

func (s *AccountService) provision(actor *authz.Principal, req models.CreateAccountRequest, role models.AccountRole, set permissions.Set, branchID *uuid.UUID) (*models.Account, error) {
	// Uniqueness is checked before any write so a duplicate never leaves a
	// partial record behind; the unique indexes remain the backstop.
	if exists, err := s.repo.EmailExists(req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	if exists, err := s.repo.PhoneExists(req.Phone); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicatePhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	actorID := actor.ID
	account := &models.Account{
		TenantID:     actor.TenantID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		Permissions:  set,
		BranchID:     branchID,
		CreatedByID:  &actorID,
		IsActive:     true,
		// Provisioned internally, not self-serve signup.
		IsEmailVerified: true,
	}
	if err := s.repo.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

// UpdatePermissions replaces the target's stored permission set. Admin-tier
// actors may only touch accounts they created, and the subset invariant is
// re-validated against the admin's current set: an admin whose own grants
// were reduced cannot keep over-privileged staff.
func (s *AccountService) UpdatePermissions(ctx context.Context, actor *authz.Principal, targetID uuid.UUID, newSet permissions.Set) (*models.Account, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	target, err := s.findTarget(actor.TenantID, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOver(actor, target); err != nil {
		return nil, err
	}

	set := newSet.Normalize()
	if set.IsEmpty() {
		return nil, &InvalidPermissionsError{Reason: "permission set must grant at least one action"}
	}
	if target.Role == models.RoleStaff && actor.Role.IsAdminTier() {
		admin, err := s.repo.FindByID(actor.TenantID, actor.ID)
		if err != nil {
			return nil, err
		}
		if result := permissions.IsSubset(admin.Permissions, set); !result.Valid {
			return nil, &InvalidPermissionsError{
				Reason:     "staff permissions exceed the creating admin's",
				Violations: result.Violations,
			}
		}
	}

	before := target.Permissions.Clone()
	target.Permissions = set
	if err := s.repo.Save(target); err != nil {
		return nil, err
	}
	s.invalidate(ctx, actor.TenantID, target.ID)

	s.record(ctx, actor, audit.Event{
		Action:       audit.ActionPermissionsUpdated,
		Category:     "rbac",
		Description:  "Replaced stored permission set",
		ResourceType: "account",
		ResourceID:   &target.ID,
		Status:       audit.StatusSuccess,
		RiskLevel:    audit.RiskHigh,
		Before:       before,
		After:        set,
	})
	return target, nil
}

// Deactivate disables the target and, for admin-tier targets, every account
// it created, in one transaction. Re-deactivating an inactive account is an
// error, not a no-op.
func (s *AccountService) Deactivate(ctx context.Context, actor *authz.Principal, targetID uuid.UUID, reason string) (*models.DeactivateResult, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	target, err := s.findTarget(actor.TenantID, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOver(actor, target); err != nil {
		return nil, err
	}
	if !target.IsActive {
		return nil, ErrAlreadyDeactivated
	}

	now := time.Now()
	var cascaded int64
	err = s.repo.WithTransaction(func(tx repository.AccountRepository) error {
		target.IsActive = false
		target.DeactivationReason = &reason
		target.DeactivatedAt = &now
		if err := tx.Save(target); err != nil {
			return err
		}
		if target.Role.IsAdminTier() {
			count, err := tx.DeactivateCreatedBy(actor.TenantID, target.ID, reason, now)
			if err != nil {
				return err
			}
			cascaded = count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Children were touched too; drop the whole tenant's cached sets.
	s.invalidateAll(ctx, actor.TenantID)

	s.record(ctx, actor, audit.Event{
		Action:       audit.ActionAccountDeactivated,
		Category:     "account_lifecycle",
		Description:  fmt.Sprintf("Deactivated %s account", target.Role),
		ResourceType: "account",
		ResourceID:   &target.ID,
		Status:       audit.StatusSuccess,
		RiskLevel:    audit.RiskHigh,
		Metadata: map[string]interface{}{
			"reason":        reason,
			"cascadedCount": int(cascaded),
		},
	})
	return &models.DeactivateResult{Account: target, CascadedCount: int(cascaded)}, nil
}

// Reactivate re-enables the target only. Children stay inactive and must be
// reactivated individually; the asymmetry with Deactivate is intentional.
func (s *AccountService) Reactivate(ctx context.Context, actor *authz.Principal, targetID uuid.UUID) (*models.Account, error) {
	if actor == nil {
		return nil, ErrForbidden
	}

	target, err := s.findTarget(actor.TenantID, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeOver(actor, target); err != nil {
		return nil, err
	}
	if target.IsActive {
		return nil, ErrAlreadyActive
	}

	target.IsActive = true
	target.DeactivationReason = nil
	target.DeactivatedAt = nil
	if err := s.repo.Save(target); err != nil {
		return nil, err
	}
	s.invalidate(ctx, actor.TenantID, target.ID)

	s.record(ctx, actor, audit.Event{
		Action:       audit.ActionAccountReactivated,
		Category:     "account_lifecycle",
		Description:  fmt.Sprintf("Reactivated %s account", target.Role),
		ResourceType: "account",
		ResourceID:   &target.ID,
		Status:       audit.StatusSuccess,
		RiskLevel:    audit.RiskMedium,
	})
	return target, nil
}

// GetAccount returns one account, subject to the same administration rules
// as mutations.
func (s *AccountService) GetAccount(ctx context.Context, actor *authz.Principal, targetID uuid.UUID) (*models.Account, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	target, err := s.findTarget(actor.TenantID, targetID)
	if err != nil {
		return nil, err
	}
	if actor.ID != target.ID {
		if err := s.authorizeOver(actor, target); err != nil {
			return nil, err
		}
	}
	return target, nil
}

// ListAccounts pages through the tenant's accounts. Admin-tier actors see
// only the accounts they created; super admins see everything.
func (s *AccountService) ListAccounts(ctx context.Context, actor *authz.Principal, page, limit int) ([]models.Account, *models.PaginationInfo, error) {
	if actor == nil {
		return nil, nil, ErrForbidden
	}
	if actor.Role == models.RoleSuperAdmin {
		return s.repo.List(actor.TenantID, page, limit)
	}
	accounts, err := s.repo.ListCreatedBy(actor.TenantID, actor.ID)
	if err != nil {
		return nil, nil, err
	}
	total := int64(len(accounts))
	return accounts, &models.PaginationInfo{
		Page:       1,
		Limit:      len(accounts),
		Total:      total,
		TotalPages: 1,
	}, nil
}

// ListSubordinates returns the accounts created by the actor.
func (s *AccountService) ListSubordinates(ctx context.Context, actor *authz.Principal) ([]models.Account, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	return s.repo.ListCreatedBy(actor.TenantID, actor.ID)
}

// BootstrapSuperAdmin provisions a tenant's root account with every
// permission granted. Called from the internal onboarding route only.
func (s *AccountService) BootstrapSuperAdmin(ctx context.Context, tenantID string, req models.CreateAccountRequest) (*models.Account, error) {
	if exists, err := s.repo.EmailExists(req.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	if exists, err := s.repo.PhoneExists(req.Phone); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicatePhone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		TenantID:        tenantID,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		PasswordHash:    string(hash),
		Role:            models.RoleSuperAdmin,
		Permissions:     permissions.FullSet(),
		IsActive:        true,
		IsEmailVerified: true,
	}
	if err := s.repo.Create(account); err != nil {
		return nil, err
	}

	s.record(ctx, nil, audit.Event{
		TenantID:     tenantID,
		ActorType:    "system",
		Action:       audit.ActionAccountCreated,
		Category:     "account_lifecycle",
		Description:  "Bootstrapped tenant super admin",
		ResourceType: "account",
		ResourceID:   &account.ID,
		Status:       audit.StatusSuccess,
		RiskLevel:    audit.RiskHigh,
	})
	return account, nil
}

// resolvePermissions picks the requested set: a preset when PresetKey is
// given, otherwise the explicit set normalized against the taxonomy.
func (s *AccountService) resolvePermissions(req models.CreateAccountRequest) (permissions.Set, error) {
	if req.PresetKey != nil {
		preset, ok := permissions.GetPreset(*req.PresetKey)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, *req.PresetKey)
		}
		return preset.Permissions, nil
	}
	return req.Permissions.Normalize(), nil
}

func (s *AccountService) findTarget(tenantID string, targetID uuid.UUID) (*models.Account, error) {
	target, err := s.repo.FindByID(tenantID, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}

// authorizeOver enforces the created-by chain: super admins administer any
// admin-tier account (and anything they created directly); admin-tier actors
// administer only accounts they created.
func (s *AccountService) authorizeOver(actor *authz.Principal, target *models.Account) error {
	switch {
	case actor.Role == models.RoleSuperAdmin:
		if target.Role.IsAdminTier() {
			return nil
		}
		if target.CreatedByID != nil && *target.CreatedByID == actor.ID {
			return nil
		}
	case actor.Role.IsAdminTier():
		if target.CreatedByID != nil && *target.CreatedByID == actor.ID {
			return nil
		}
	}
	return ErrForbidden
}

func (s *AccountService) recordCreation(ctx context.Context, actor *authz.Principal, account *models.Account) {
	s.record(ctx, actor, audit.Event{
		Action:       audit.ActionAccountCreated,
		Category:     "account_lifecycle",
		Description:  fmt.Sprintf("Created %s account", account.Role),
		ResourceType: "account",
		ResourceID:   &account.ID,
		Status:       audit.StatusSuccess,
		RiskLevel:    audit.RiskHigh,
		After:        account.Permissions,
	})
}

func (s *AccountService) record(ctx context.Context, actor *authz.Principal, event audit.Event) {
	if s.sink == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if actor != nil {
		actorID := actor.ID
		event.ActorID = &actorID
		event.ActorType = string(actor.Role)
		if event.TenantID == "" {
			event.TenantID = actor.TenantID
		}
	}
	s.sink.Record(ctx, event)
}

func (s *AccountService) invalidate(ctx context.Context, tenantID string, accountID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tenantID, accountID); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate permission cache")
	}
}

func (s *AccountService) invalidateAll(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx, tenantID); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate permission cache")
	}
}
