package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
)

func testCache(t *testing.T) (*PermissionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewPermissionCacheWithClient(client, 5*time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func snapshot(t *testing.T, tenantID string) *CachedPrincipal {
	t.Helper()
	preset, ok := permissions.GetPreset(permissions.PresetViewer)
	require.True(t, ok)
	return &CachedPrincipal{
		AccountID:   uuid.New(),
		TenantID:    tenantID,
		Role:        models.RoleStaff,
		Permissions: preset.Permissions,
		IsActive:    true,
	}
}

func TestPermissionCacheRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	principal := snapshot(t, "tenant-1")
	require.NoError(t, c.Set(ctx, "tenant-1", principal.AccountID, principal))

	got, err := c.Get(ctx, "tenant-1", principal.AccountID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, principal.Role, got.Role)
	assert.Equal(t, principal.Permissions, got.Permissions)
	assert.True(t, got.Permissions.Read(permissions.ModuleOrders, permissions.ActionView))
}

func TestPermissionCacheMissReturnsNil(t *testing.T) {
	c, _ := testCache(t)

	got, err := c.Get(context.Background(), "tenant-1", uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPermissionCacheInvalidate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	principal := snapshot(t, "tenant-1")
	require.NoError(t, c.Set(ctx, "tenant-1", principal.AccountID, principal))
	require.NoError(t, c.Invalidate(ctx, "tenant-1", principal.AccountID))

	got, err := c.Get(ctx, "tenant-1", principal.AccountID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPermissionCacheInvalidateAllScopedToTenant(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	first := snapshot(t, "tenant-1")
	second := snapshot(t, "tenant-1")
	other := snapshot(t, "tenant-2")
	require.NoError(t, c.Set(ctx, "tenant-1", first.AccountID, first))
	require.NoError(t, c.Set(ctx, "tenant-1", second.AccountID, second))
	require.NoError(t, c.Set(ctx, "tenant-2", other.AccountID, other))

	require.NoError(t, c.InvalidateAll(ctx, "tenant-1"))

	got, err := c.Get(ctx, "tenant-1", first.AccountID)
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = c.Get(ctx, "tenant-1", second.AccountID)
	require.NoError(t, err)
	assert.Nil(t, got)

	// The other tenant's entries survive.
	got, err = c.Get(ctx, "tenant-2", other.AccountID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestPermissionCacheExpiry(t *testing.T) {
	c, mr := testCache(t)
	ctx := context.Background()

	principal := snapshot(t, "tenant-1")
	require.NoError(t, c.Set(ctx, "tenant-1", principal.AccountID, principal))

	mr.FastForward(10 * time.Minute)

	got, err := c.Get(ctx, "tenant-1", principal.AccountID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPermissionCacheDegradesWithoutClient(t *testing.T) {
	c := &PermissionCache{client: nil, ttl: time.Minute}
	ctx := context.Background()

	assert.False(t, c.IsAvailable())
	assert.NoError(t, c.Set(ctx, "tenant-1", uuid.New(), snapshot(t, "tenant-1")))
	got, err := c.Get(ctx, "tenant-1", uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(ctx, "tenant-1", uuid.New()))
	assert.NoError(t, c.InvalidateAll(ctx, "tenant-1"))
	assert.NoError(t, c.Close())
}
