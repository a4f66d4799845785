package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"accounts-service/internal/models"
	"accounts-service/internal/permissions"
)

// CachedPrincipal is the snapshot served to the auth middleware between
// database reads. Deactivated accounts are cached too so revoked tokens
// fail fast without a database round trip.
type CachedPrincipal struct {
	AccountID   uuid.UUID          `json:"accountId"`
	TenantID    string             `json:"tenantId"`
	Role        models.AccountRole `json:"role"`
	Permissions permissions.Set    `json:"permissions"`
	BranchID    *uuid.UUID         `json:"branchId,omitempty"`
	IsActive    bool               `json:"isActive"`
}

// PermissionCache keeps resolved permission snapshots in Redis.
type PermissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPermissionCache connects to Redis. If the ping fails the cache is
// returned with a nil client and every operation degrades to a no-op, so an
// unavailable Redis never takes the service down.
func NewPermissionCache(host string, port int, password string, db int, ttlSeconds int) (*PermissionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return &PermissionCache{
			client: nil,
			ttl:    time.Duration(ttlSeconds) * time.Second,
		}, nil
	}

	return &PermissionCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// NewPermissionCacheWithClient wraps an existing client; used by tests.
func NewPermissionCacheWithClient(client *redis.Client, ttl time.Duration) *PermissionCache {
	return &PermissionCache{client: client, ttl: ttl}
}

func (c *PermissionCache) cacheKey(tenantID string, accountID uuid.UUID) string {
	return fmt.Sprintf("perms:%s:%s", tenantID, accountID.String())
}

// Get returns the cached snapshot or (nil, nil) on a miss or when the cache
// is unavailable.
func (c *PermissionCache) Get(ctx context.Context, tenantID string, accountID uuid.UUID) (*CachedPrincipal, error) {
	if c.client == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.cacheKey(tenantID, accountID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var principal CachedPrincipal
	if err := json.Unmarshal(data, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// Set stores the snapshot under the cache TTL.
func (c *PermissionCache) Set(ctx context.Context, tenantID string, accountID uuid.UUID, principal *CachedPrincipal) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(principal)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.cacheKey(tenantID, accountID), data, c.ttl).Err()
}

// Invalidate drops one account's snapshot after its permissions or status change.
func (c *PermissionCache) Invalidate(ctx context.Context, tenantID string, accountID uuid.UUID) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.cacheKey(tenantID, accountID)).Err()
}

// InvalidateAll drops every snapshot for a tenant. A cascade deactivation
// uses this because the affected account set is not enumerated by the caller.
func (c *PermissionCache) InvalidateAll(ctx context.Context, tenantID string) error {
	if c.client == nil {
		return nil
	}

	pattern := fmt.Sprintf("perms:%s:*", tenantID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (c *PermissionCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// IsAvailable reports whether a Redis connection is live.
func (c *PermissionCache) IsAvailable() bool {
	return c.client != nil
}
