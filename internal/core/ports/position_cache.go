package ports

import (
	"context"
	"time"
)

// TelemetryDedup drops samples that were already accepted.
type TelemetryDedup interface {
	// MarkIfNew records the sample and reports true when it was not seen before.
	MarkIfNew(ctx context.Context, courierID string, recordedAt time.Time) (bool, error)
}

// PositionCache keeps the latest position per courier for live views.
type PositionCache interface {
	// Set stores ev unless a newer position is already cached and reports
	// whether ev is now the cached position.
	Set(ctx context.Context, ev PositionEvent) (bool, error)
	Get(ctx context.Context, courierID string) (*PositionEvent, error)
	All(ctx context.Context) ([]PositionEvent, error)
}
