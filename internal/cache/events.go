package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eventwall/eventwall/internal/model"
)

// eventListKey holds the serialized public event list, already sorted by
// display order. Every event write invalidates it.
const eventListKey = "events:list"

// ErrCacheMiss indicates the requested entry is not cached.
var ErrCacheMiss = errors.New("cache miss")

// GetEventList retrieves the cached ordered event list.
// Returns ErrCacheMiss if not present.
func (c *Cache) GetEventList(ctx context.Context) ([]*model.Event, error) {
	data, err := c.client.Get(ctx, eventListKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var events []*model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		// A corrupt entry behaves like a miss; it will be overwritten.
		return nil, ErrCacheMiss
	}

	return events, nil
}

// SetEventList stores the ordered event list with the given TTL.
// A zero or negative TTL disables caching entirely.
func (c *Cache) SetEventList(ctx context.Context, events []*model.Event, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("marshal event list: %w", err)
	}

	if err := c.client.Set(ctx, eventListKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// InvalidateEventList drops the cached event list.
func (c *Cache) InvalidateEventList(ctx context.Context) error {
	if err := c.client.Del(ctx, eventListKey).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
