package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = time.Hour

// DedupChecker provides idempotency checks for channel telemetry backed by Redis.
// Key format: dedup:telemetry:<courier_id>:<unix_millis>
type DedupChecker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
// A non-positive ttl falls back to one hour.
func NewDedupChecker(client *redis.Client, ttl time.Duration) *DedupChecker {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &DedupChecker{client: client, ttl: ttl}
}

// MarkIfNew atomically records the sample and reports whether it was unseen.
func (d *DedupChecker) MarkIfNew(ctx context.Context, courierID string, recordedAt time.Time) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(courierID, recordedAt), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup mark: %w", err)
	}
	return ok, nil
}

func (d *DedupChecker) key(courierID string, recordedAt time.Time) string {
	return fmt.Sprintf("dedup:telemetry:%s:%d", courierID, recordedAt.UnixMilli())
}
