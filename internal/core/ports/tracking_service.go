package ports

import (
	"context"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// PublicView is the unauthenticated projection of a delivery.
type PublicView struct {
	Status         domain.DeliveryStatus
	LatestPosition *RoutePointView
	CleanedRoute   []RoutePointView
}

// TrackingService exposes deliveries by their public tracking token and
// serves route detail for authenticated callers.
type TrackingService interface {
	Resolve(ctx context.Context, token string) (string, error)
	GetPublicView(ctx context.Context, token string) (*PublicView, error)
	GetRouteDetail(ctx context.Context, deliveryID string) (*RouteDetail, error)
	GetRouteDetailByToken(ctx context.Context, token string) (*RouteDetail, error)
}

// CourierLiveView is one courier on the dispatch map.
type CourierLiveView struct {
	CourierID      string
	FullName       string
	Position       *PositionEvent
	OpenDeliveries int64
	Online         bool
}

// CourierViewService builds the couriers-on-map view.
type CourierViewService interface {
	ListLive(ctx context.Context) ([]CourierLiveView, error)
}
