package ports

import (
	"context"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// LocationRepository is the append-only store for telemetry. Two logical
// streams are kept: the courier-global history and the per-delivery trail.
type LocationRepository interface {
	AppendTelemetry(ctx context.Context, r *domain.TelemetryReport) error
	AppendRoutePoint(ctx context.Context, p *domain.RoutePoint) error
	// LatestForCourier returns the most recently recorded report or domain.ErrNotFound.
	LatestForCourier(ctx context.Context, courierID string) (*domain.TelemetryReport, error)
	// LatestForDelivery returns the most recently recorded route point or domain.ErrNotFound.
	LatestForDelivery(ctx context.Context, deliveryID string) (*domain.RoutePoint, error)
	// RoutePoints returns the delivery's trail in arrival order.
	RoutePoints(ctx context.Context, deliveryID string) ([]domain.RoutePoint, error)
}
