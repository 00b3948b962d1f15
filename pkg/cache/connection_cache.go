package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// ConnectionCacheTTL is the time-to-live for cached connection records.
	// Short on purpose: a disconnected shop must stop receiving events quickly.
	ConnectionCacheTTL = 10 * time.Minute

	connectionCacheKeyPrefix = "connection"
)

// CachedConnection is the denormalized connection read model stored in Redis.
// Fields are stored as a Redis hash keyed by shop domain.
type CachedConnection struct {
	Shop                string
	PixelID             string
	AccessToken         string
	TestEventCode       string
	CredentialExpiresAt *time.Time
	Active              bool
}

// ConnectionCache provides structured read/write operations for connection
// cache entries. Key format: "connection:{shop}"
type ConnectionCache struct {
	client *RedisClient
}

// NewConnectionCache creates a ConnectionCache backed by the given RedisClient.
func NewConnectionCache(r *RedisClient) *ConnectionCache {
	return &ConnectionCache{client: r}
}

// Get retrieves a cached connection by shop domain.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *ConnectionCache) Get(ctx context.Context, shop string) (*CachedConnection, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(shop)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil // key not found
	}

	active, err := strconv.ParseBool(vals["active"])
	if err != nil {
		return nil, fmt.Errorf("cache parse active: %w", err)
	}

	cached := &CachedConnection{
		Shop:          vals["shop"],
		PixelID:       vals["pixel_id"],
		AccessToken:   vals["access_token"],
		TestEventCode: vals["test_event_code"],
		Active:        active,
	}
	if raw := vals["credential_expires_at"]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("cache parse credential_expires_at: %w", err)
		}
		cached.CredentialExpiresAt = &t
	}
	return cached, nil
}

// Set writes a cached connection as a Redis hash with a 10-minute TTL.
// Uses a pipeline to set all fields and the TTL atomically.
func (c *ConnectionCache) Set(ctx context.Context, conn *CachedConnection) error {
	expiresAt := ""
	if conn.CredentialExpiresAt != nil {
		expiresAt = conn.CredentialExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	pipe := c.client.Client().Pipeline()
	pipe.HSet(ctx, c.key(conn.Shop),
		"shop", conn.Shop,
		"pixel_id", conn.PixelID,
		"access_token", conn.AccessToken,
		"test_event_code", conn.TestEventCode,
		"credential_expires_at", expiresAt,
		"active", strconv.FormatBool(conn.Active),
	)
	pipe.Expire(ctx, c.key(conn.Shop), ConnectionCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached connection. Call on every connection write so the
// pipeline never reads a stale record for longer than one round trip.
func (c *ConnectionCache) Delete(ctx context.Context, shop string) error {
	if err := c.client.Client().Del(ctx, c.key(shop)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// key builds the Redis key: "connection:{shop}"
func (c *ConnectionCache) key(shop string) string {
	return fmt.Sprintf("%s:%s", connectionCacheKeyPrefix, shop)
}
