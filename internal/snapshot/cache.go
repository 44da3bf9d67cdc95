// Package snapshot persists the last-known campaign collection in Redis so
// a restarted console can show state immediately while the first real fetch
// is in flight. The cache is advisory: it is written after poll applies and
// read exactly once at startup, never treated as fresh data.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-console/internal/domain"
)

const campaignsKey = "campaign-console:campaigns"

// Cache is a Redis-backed snapshot store. Safe for concurrent use.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to Redis at the given address.
func New(addr string, db int, ttl time.Duration) *Cache {
	return NewWithClient(redis.NewClient(&redis.Options{Addr: addr, DB: db}), ttl)
}

// NewWithClient wraps an existing Redis client (useful for testing).
func NewWithClient(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Save stores the campaign collection, replacing any previous snapshot.
func (c *Cache) Save(ctx context.Context, campaigns []domain.Campaign) error {
	data, err := json.Marshal(campaigns)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, campaignsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the stored collection, or nil when no snapshot exists.
func (c *Cache) Load(ctx context.Context) ([]domain.Campaign, error) {
	data, err := c.rdb.Get(ctx, campaignsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var campaigns []domain.Campaign
	if err := json.Unmarshal(data, &campaigns); err != nil {
		// A corrupt snapshot is discarded, not fatal.
		return nil, nil
	}
	return campaigns, nil
}

// Clear drops the snapshot.
func (c *Cache) Clear(ctx context.Context) error {
	return c.rdb.Del(ctx, campaignsKey).Err()
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.rdb.Close()
}
