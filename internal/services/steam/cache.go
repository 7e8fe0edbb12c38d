package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// AppDetailsTTL caches storefront app details. Prices change on sale
	// boundaries, so an hour is fresh enough.
	AppDetailsTTL = 1 * time.Hour
	// LibraryTTL caches owned-games responses. Playtime drifts constantly
	// but a sync sweep every half hour is plenty.
	LibraryTTL = 30 * time.Minute
	// AchievementsTTL caches per-game achievement progress, the slowest
	// moving of the three.
	AchievementsTTL = 1 * time.Hour

	cachePrefix = "steam:"
)

// Cache is a redis-backed JSON cache for Steam API responses. Steam rate
// limits aggressively, so every response worth keeping goes through here.
type Cache struct {
	client *redis.Client
}

// NewCache creates a cache on an existing redis client.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get loads the cached value for key into out. Returns false on a miss;
// a corrupt entry is treated as a miss rather than surfaced.
func (c *Cache) Get(ctx context.Context, key string, out any) (bool, error) {
	raw, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, nil
	}
	return true, nil
}

// Set stores a value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, cachePrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
