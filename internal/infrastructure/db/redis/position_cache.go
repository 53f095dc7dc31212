package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

const positionsKey = "positions:couriers"

// PositionCache keeps the latest position of every courier in one Redis hash
// (field = courier id, value = JSON PositionEvent).
type PositionCache struct {
	client     *redis.Client
	staleAfter time.Duration
	now        func() time.Time
}

// NewPositionCache returns a cache. Positions recorded more than staleAfter
// ago are left out of All; zero keeps everything.
func NewPositionCache(client *redis.Client, staleAfter time.Duration) *PositionCache {
	return &PositionCache{client: client, staleAfter: staleAfter, now: time.Now}
}

// Set stores ev unless a newer position is already cached for the courier.
func (c *PositionCache) Set(ctx context.Context, ev ports.PositionEvent) (bool, error) {
	current, err := c.Get(ctx, ev.CourierID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if current != nil && current.RecordedAt.After(ev.RecordedAt) {
		return false, nil
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return false, fmt.Errorf("position cache encode: %w", err)
	}
	if err := c.client.HSet(ctx, positionsKey, ev.CourierID, raw).Err(); err != nil {
		return false, fmt.Errorf("position cache set: %w", err)
	}
	return true, nil
}

// Get returns the courier's cached position or domain.ErrNotFound.
func (c *PositionCache) Get(ctx context.Context, courierID string) (*ports.PositionEvent, error) {
	raw, err := c.client.HGet(ctx, positionsKey, courierID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("position cache get: %w", err)
	}
	var ev ports.PositionEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("position cache decode: %w", err)
	}
	return &ev, nil
}

// All returns every fresh cached position. Undecodable entries are skipped.
func (c *PositionCache) All(ctx context.Context) ([]ports.PositionEvent, error) {
	entries, err := c.client.HGetAll(ctx, positionsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("position cache list: %w", err)
	}

	out := make([]ports.PositionEvent, 0, len(entries))
	for _, raw := range entries {
		var ev ports.PositionEvent
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			continue
		}
		if c.staleAfter > 0 && c.now().Sub(ev.RecordedAt) > c.staleAfter {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
