package ports

import (
	"context"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// DeliveryRepository defines persistence operations for deliveries.
//
// Implementations must enforce the single in-transit delivery per courier at
// the storage layer (unique partial index or equivalent), reporting a
// violation as domain.ErrConflictActiveDelivery.
type DeliveryRepository interface {
	Create(ctx context.Context, d *domain.Delivery) error
	FindByID(ctx context.Context, id string) (*domain.Delivery, error)
	FindByTrackingToken(ctx context.Context, token string) (*domain.Delivery, error)
	// FindActiveByCourier returns the courier's in-transit delivery or
	// domain.ErrDeliveryNotFound.
	FindActiveByCourier(ctx context.Context, courierID string) (*domain.Delivery, error)
	// CompareAndSwap replaces the stored delivery with next only if its current
	// status is one of expected and its version still equals next.Version.
	// On success next.Version is advanced. A status or version mismatch
	// yields domain.ErrInvalidState.
	CompareAndSwap(ctx context.Context, next *domain.Delivery, expected ...domain.DeliveryStatus) error
	// CountOpenByCourier counts assigned and in-transit deliveries.
	CountOpenByCourier(ctx context.Context, courierID string) (int64, error)
}
