package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"accounts-service/internal/audit"
	"accounts-service/internal/authz"
	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
	"accounts-service/internal/repository"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(tenantID string, id uuid.UUID) (*models.Account, error) {
	args := m.Called(tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(email string) (*models.Account, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByPhone(phone string) (*models.Account, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) PhoneExists(phone string) (bool, error) {
	args := m.Called(phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) Save(account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockAccountRepository) ListCreatedBy(tenantID string, creatorID uuid.UUID) ([]models.Account, error) {
	args := m.Called(tenantID, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Account), args.Error(1)
}

func (m *MockAccountRepository) List(tenantID string, page, limit int) ([]models.Account, *models.PaginationInfo, error) {
	args := m.Called(tenantID, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]models.Account), args.Get(1).(*models.PaginationInfo), args.Error(2)
}

func (m *MockAccountRepository) DeactivateCreatedBy(tenantID string, creatorID uuid.UUID, reason string, at time.Time) (int64, error) {
	args := m.Called(tenantID, creatorID, reason, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) WithTransaction(fn func(txRepo repository.AccountRepository) error) error {
	args := m.Called(fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m)
}

// recordingSink captures audit events for assertions.
type recordingSink struct {
	events []audit.Event
}

func (s *recordingSink) Record(_ context.Context, event audit.Event) {
	s.events = append(s.events, event)
}

const testTenant = "tenant-1"

func superAdminPrincipal() *authz.Principal {
	return &authz.Principal{
		ID:       uuid.New(),
		TenantID: testTenant,
		Role:     models.RoleSuperAdmin,
	}
}

func adminWithPreset(t *testing.T, key permissions.PresetKey) (*authz.Principal, *models.Account) {
	t.Helper()
	preset, ok := permissions.GetPreset(key)
	require.True(t, ok)

	branchID := uuid.New()
	account := &models.Account{
		ID:          uuid.New(),
		TenantID:    testTenant,
		Role:        models.RoleAdmin,
		Permissions: preset.Permissions,
		BranchID:    &branchID,
		IsActive:    true,
		Version:     1,
	}
	principal := &authz.Principal{
		ID:          account.ID,
		TenantID:    testTenant,
		Role:        models.RoleAdmin,
		Permissions: preset.Permissions,
	}
	return principal, account
}

func createRequest(set permissions.Set) models.CreateAccountRequest {
	return models.CreateAccountRequest{
		Name:        "Test User",
		Email:       "user@example.com",
		Phone:       "+20100000001",
		Password:    "s3cret-pass",
		Permissions: set,
	}
}

func TestCreateAdminRequiresSuperAdmin(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, _ := adminWithPreset(t, permissions.PresetManager)
	_, err := svc.CreateAdmin(context.Background(), actor, createRequest(permissions.FullSet()))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateAdmin(context.Background(), nil, createRequest(permissions.FullSet()))
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateCenterAdminRequiresBranch(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	_, err := svc.CreateCenterAdmin(context.Background(), superAdminPrincipal(), createRequest(permissions.FullSet()))
	assert.ErrorIs(t, err, ErrBranchRequired)
}

func TestCreateAdminWithPreset(t *testing.T) {
	repo := new(MockAccountRepository)
	sink := &recordingSink{}
	svc := NewAccountService(repo, sink, nil)

	repo.On("EmailExists", "user@example.com").Return(false, nil)
	repo.On("PhoneExists", "+20100000001").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*models.Account")).Return(nil)

	key := permissions.PresetFinanceAdmin
	req := createRequest(nil)
	req.PresetKey = &key

	actor := superAdminPrincipal()
	account, err := svc.CreateAdmin(context.Background(), actor, req)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, account.Role)
	assert.Equal(t, testTenant, account.TenantID)
	assert.True(t, account.IsActive)
	assert.True(t, account.IsEmailVerified)
	require.NotNil(t, account.CreatedByID)
	assert.Equal(t, actor.ID, *account.CreatedByID)
	assert.NotEqual(t, "s3cret-pass", account.PasswordHash)

	preset, _ := permissions.GetPreset(key)
	assert.Equal(t, preset.Permissions, account.Permissions)

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.ActionAccountCreated, sink.events[0].Action)
	repo.AssertExpectations(t)
}

func TestCreateAdminUnknownPreset(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	key := permissions.PresetKey("warehouseAdmin")
	req := createRequest(nil)
	req.PresetKey = &key

	_, err := svc.CreateAdmin(context.Background(), superAdminPrincipal(), req)
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestCreateAdminRejectsEmptySet(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	_, err := svc.CreateAdmin(context.Background(), superAdminPrincipal(), createRequest(permissions.EmptySet()))
	var invalid *InvalidPermissionsError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, invalid.Violations)
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	repo.On("EmailExists", "user@example.com").Return(true, nil)

	_, err := svc.CreateAdmin(context.Background(), superAdminPrincipal(), createRequest(permissions.FullSet()))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateAdminDuplicatePhone(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	repo.On("EmailExists", "user@example.com").Return(false, nil)
	repo.On("PhoneExists", "+20100000001").Return(true, nil)

	_, err := svc.CreateAdmin(context.Background(), superAdminPrincipal(), createRequest(permissions.FullSet()))
	assert.ErrorIs(t, err, ErrDuplicatePhone)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateStaffInheritsAdminBranch(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)
	repo.On("EmailExists", "user@example.com").Return(false, nil)
	repo.On("PhoneExists", "+20100000001").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*models.Account")).Return(nil)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))

	// The client-supplied branch is ignored for staff.
	req := createRequest(set)
	rogueBranch := uuid.New()
	req.BranchID = &rogueBranch

	account, err := svc.CreateStaff(context.Background(), actor, req)
	require.NoError(t, err)

	assert.Equal(t, models.RoleStaff, account.Role)
	require.NotNil(t, account.BranchID)
	assert.Equal(t, *admin.BranchID, *account.BranchID)
}

func TestCreateStaffBranchlessAdmin(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	admin.BranchID = nil
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)
	repo.On("EmailExists", mock.Anything).Return(false, nil)
	repo.On("PhoneExists", mock.Anything).Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*models.Account")).Return(nil)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))

	account, err := svc.CreateStaff(context.Background(), actor, createRequest(set))
	require.NoError(t, err)
	assert.Nil(t, account.BranchID)
}

func TestCreateStaffRejectsSupersetWithViolations(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)

	// Manager holds no financial grants, so financial.view must be reported.
	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))
	require.NoError(t, set.Grant(permissions.ModuleFinancial, permissions.ActionView, true))

	_, err := svc.CreateStaff(context.Background(), actor, createRequest(set))
	var invalid *InvalidPermissionsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"financial.view"}, invalid.Violations)
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateStaffOmittedSetIsRejected(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)

	_, err := svc.CreateStaff(context.Background(), actor, createRequest(nil))
	var invalid *InvalidPermissionsError
	assert.ErrorAs(t, err, &invalid)
}

func TestCreateStaffActorWithEmptySet(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	admin.Permissions = permissions.EmptySet()
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))

	_, err := svc.CreateStaff(context.Background(), actor, createRequest(set))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateStaffWrongTierActor(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	staff := &authz.Principal{ID: uuid.New(), TenantID: testTenant, Role: models.RoleStaff}
	_, err := svc.CreateStaff(context.Background(), staff, createRequest(permissions.EmptySet()))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePermissionsRevalidatesAgainstCurrentAdminSet(t *testing.T) {
	repo := new(MockAccountRepository)
	sink := &recordingSink{}
	svc := NewAccountService(repo, sink, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	staffID := uuid.New()
	actorID := actor.ID
	staff := &models.Account{
		ID:          staffID,
		TenantID:    testTenant,
		Role:        models.RoleStaff,
		Permissions: permissions.EmptySet(),
		CreatedByID: &actorID,
		IsActive:    true,
		Version:     3,
	}
	repo.On("FindByID", testTenant, staffID).Return(staff, nil)
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)
	repo.On("Save", mock.AnythingOfType("*models.Account")).Return(nil)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionCancel, true))

	updated, err := svc.UpdatePermissions(context.Background(), actor, staffID, set)
	require.NoError(t, err)
	assert.True(t, updated.Permissions.Read(permissions.ModuleOrders, permissions.ActionCancel))

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.ActionPermissionsUpdated, sink.events[0].Action)
	assert.NotNil(t, sink.events[0].Before)
	assert.NotNil(t, sink.events[0].After)
}

func TestUpdatePermissionsRejectsWidenedSet(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	staffID := uuid.New()
	actorID := actor.ID
	staff := &models.Account{
		ID:          staffID,
		TenantID:    testTenant,
		Role:        models.RoleStaff,
		CreatedByID: &actorID,
		IsActive:    true,
	}
	repo.On("FindByID", testTenant, staffID).Return(staff, nil)
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleUsers, permissions.ActionAssignRole, true))

	_, err := svc.UpdatePermissions(context.Background(), actor, staffID, set)
	var invalid *InvalidPermissionsError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []string{"users.assignRole"}, invalid.Violations)
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestUpdatePermissionsForbiddenForNonCreator(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, _ := adminWithPreset(t, permissions.PresetManager)
	otherAdmin := uuid.New()
	staffID := uuid.New()
	staff := &models.Account{
		ID:          staffID,
		TenantID:    testTenant,
		Role:        models.RoleStaff,
		CreatedByID: &otherAdmin,
	}
	repo.On("FindByID", testTenant, staffID).Return(staff, nil)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))

	_, err := svc.UpdatePermissions(context.Background(), actor, staffID, set)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdatePermissionsSurfacesVersionConflict(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, admin := adminWithPreset(t, permissions.PresetManager)
	staffID := uuid.New()
	actorID := actor.ID
	staff := &models.Account{
		ID:          staffID,
		TenantID:    testTenant,
		Role:        models.RoleStaff,
		CreatedByID: &actorID,
	}
	repo.On("FindByID", testTenant, staffID).Return(staff, nil)
	repo.On("FindByID", testTenant, actor.ID).Return(admin, nil)
	repo.On("Save", mock.AnythingOfType("*models.Account")).Return(repository.ErrVersionConflict)

	set := permissions.EmptySet()
	require.NoError(t, set.Grant(permissions.ModuleOrders, permissions.ActionView, true))

	_, err := svc.UpdatePermissions(context.Background(), actor, staffID, set)
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}

func TestUpdatePermissionsTargetNotFound(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	targetID := uuid.New()
	repo.On("FindByID", testTenant, targetID).Return(nil, repository.ErrNotFound)

	_, err := svc.UpdatePermissions(context.Background(), superAdminPrincipal(), targetID, permissions.FullSet())
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestDeactivateAdminCascades(t *testing.T) {
	repo := new(MockAccountRepository)
	sink := &recordingSink{}
	svc := NewAccountService(repo, sink, nil)

	actor := superAdminPrincipal()
	adminID := uuid.New()
	admin := &models.Account{
		ID:       adminID,
		TenantID: testTenant,
		Role:     models.RoleAdmin,
		IsActive: true,
		Version:  2,
	}
	repo.On("FindByID", testTenant, adminID).Return(admin, nil)
	repo.On("WithTransaction", mock.AnythingOfType("func(repository.AccountRepository) error")).Return(nil)
	repo.On("Save", mock.AnythingOfType("*models.Account")).Return(nil)
	repo.On("DeactivateCreatedBy", testTenant, adminID, "policy breach", mock.AnythingOfType("time.Time")).
		Return(int64(4), nil)

	result, err := svc.Deactivate(context.Background(), actor, adminID, "policy breach")
	require.NoError(t, err)

	assert.Equal(t, 4, result.CascadedCount)
	assert.False(t, result.Account.IsActive)
	require.NotNil(t, result.Account.DeactivationReason)
	assert.Equal(t, "policy breach", *result.Account.DeactivationReason)

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.ActionAccountDeactivated, sink.events[0].Action)
	assert.Equal(t, 4, sink.events[0].Metadata["cascadedCount"])
	assert.Equal(t, "policy breach", sink.events[0].Metadata["reason"])
	repo.AssertExpectations(t)
}

func TestDeactivateAdminWithNoStaff(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor := superAdminPrincipal()
	adminID := uuid.New()
	admin := &models.Account{ID: adminID, TenantID: testTenant, Role: models.RoleCenterAdmin, IsActive: true}
	repo.On("FindByID", testTenant, adminID).Return(admin, nil)
	repo.On("WithTransaction", mock.Anything).Return(nil)
	repo.On("Save", mock.Anything).Return(nil)
	repo.On("DeactivateCreatedBy", testTenant, adminID, "closing branch", mock.Anything).Return(int64(0), nil)

	result, err := svc.Deactivate(context.Background(), actor, adminID, "closing branch")
	require.NoError(t, err)
	assert.Equal(t, 0, result.CascadedCount)
}

func TestDeactivateStaffDoesNotCascade(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor, _ := adminWithPreset(t, permissions.PresetManager)
	staffID := uuid.New()
	actorID := actor.ID
	staff := &models.Account{
		ID:          staffID,
		TenantID:    testTenant,
		Role:        models.RoleStaff,
		CreatedByID: &actorID,
		IsActive:    true,
	}
	repo.On("FindByID", testTenant, staffID).Return(staff, nil)
	repo.On("WithTransaction", mock.Anything).Return(nil)
	repo.On("Save", mock.Anything).Return(nil)

	result, err := svc.Deactivate(context.Background(), actor, staffID, "left the company")
	require.NoError(t, err)
	assert.Equal(t, 0, result.CascadedCount)
	repo.AssertNotCalled(t, "DeactivateCreatedBy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeactivateAlreadyDeactivated(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor := superAdminPrincipal()
	adminID := uuid.New()
	admin := &models.Account{ID: adminID, TenantID: testTenant, Role: models.RoleAdmin, IsActive: false}
	repo.On("FindByID", testTenant, adminID).Return(admin, nil)

	_, err := svc.Deactivate(context.Background(), actor, adminID, "again")
	assert.ErrorIs(t, err, ErrAlreadyDeactivated)
	repo.AssertNotCalled(t, "WithTransaction", mock.Anything)
}

func TestDeactivateRollsBackOnCascadeFailure(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor := superAdminPrincipal()
	adminID := uuid.New()
	admin := &models.Account{ID: adminID, TenantID: testTenant, Role: models.RoleAdmin, IsActive: true}
	boom := errors.New("connection reset")
	repo.On("FindByID", testTenant, adminID).Return(admin, nil)
	repo.On("WithTransaction", mock.Anything).Return(nil)
	repo.On("Save", mock.Anything).Return(nil)
	repo.On("DeactivateCreatedBy", testTenant, adminID, "audit finding", mock.Anything).Return(int64(0), boom)

	_, err := svc.Deactivate(context.Background(), actor, adminID, "audit finding")
	assert.ErrorIs(t, err, boom)
}

func TestReactivateDoesNotCascade(t *testing.T) {
	repo := new(MockAccountRepository)
	sink := &recordingSink{}
	svc := NewAccountService(repo, sink, nil)

	actor := superAdminPrincipal()
	adminID := uuid.New()
	reason := "policy breach"
	when := time.Now()
	admin := &models.Account{
		ID:                 adminID,
		TenantID:           testTenant,
		Role:               models.RoleAdmin,
		IsActive:           false,
		DeactivationReason: &reason,
		DeactivatedAt:      &when,
	}
	repo.On("FindByID", testTenant, adminID).Return(admin, nil)
	repo.On("Save", mock.AnythingOfType("*models.Account")).Return(nil)

	account, err := svc.Reactivate(context.Background(), actor, adminID)
	require.NoError(t, err)

	assert.True(t, account.IsActive)
	assert.Nil(t, account.DeactivationReason)
	assert.Nil(t, account.DeactivatedAt)
	repo.AssertNotCalled(t, "DeactivateCreatedBy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "WithTransaction", mock.Anything)

	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.ActionAccountReactivated, sink.events[0].Action)
}

func TestReactivateAlreadyActive(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	actor := superAdminPrincipal()
	adminID := uuid.New()
	admin := &models.Account{ID: adminID, TenantID: testTenant, Role: models.RoleAdmin, IsActive: true}
	repo.On("FindByID", testTenant, adminID).Return(admin, nil)

	_, err := svc.Reactivate(context.Background(), actor, adminID)
	assert.ErrorIs(t, err, ErrAlreadyActive)
	repo.AssertNotCalled(t, "Save", mock.Anything)
}

func TestBootstrapSuperAdminGetsFullSet(t *testing.T) {
	repo := new(MockAccountRepository)
	svc := NewAccountService(repo, nil, nil)

	repo.On("EmailExists", "user@example.com").Return(false, nil)
	repo.On("PhoneExists", "+20100000001").Return(false, nil)
	repo.On("Create", mock.AnythingOfType("*models.Account")).Return(nil)

	account, err := svc.BootstrapSuperAdmin(context.Background(), testTenant, createRequest(nil))
	require.NoError(t, err)

	assert.Equal(t, models.RoleSuperAdmin, account.Role)
	assert.Nil(t, account.CreatedByID)
	assert.Equal(t, permissions.FullSet(), account.Permissions)
}
