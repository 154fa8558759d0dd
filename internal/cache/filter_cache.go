package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/app"
)

// FilterCache holds the derived filter option catalog in redis. The
// dataset is immutable within a process lifetime, so the TTL exists only
// to pick up a re-import without a restart.
type FilterCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewFilterCache(client *redisv9.Client, ttl time.Duration) *FilterCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &FilterCache{client: client, ttl: ttl}
}

const filterOptionsKey = "spellfinder:filter:options"

func (c *FilterCache) Get(ctx context.Context) (*app.FilterOptions, bool, error) {
	raw, err := c.client.Get(ctx, filterOptionsKey).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get filter options failed: %w", err)
	}

	var options app.FilterOptions
	if err := json.Unmarshal([]byte(raw), &options); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached filter options failed: %w", err)
	}
	return &options, true, nil
}

func (c *FilterCache) Set(ctx context.Context, options *app.FilterOptions) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("marshal filter options failed: %w", err)
	}
	if err := c.client.Set(ctx, filterOptionsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set filter options failed: %w", err)
	}
	return nil
}
