package ports

import (
	"context"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// CreateDeliveryInput carries the descriptive fields of a new delivery.
type CreateDeliveryInput struct {
	CustomerID string
	CourierID  string
	Priority   domain.Priority
	Schedule   domain.Schedule
}

// DeliveryService owns the delivery lifecycle and the single in-transit
// delivery per courier invariant.
type DeliveryService interface {
	Create(ctx context.Context, in CreateDeliveryInput) (*domain.Delivery, error)
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	Assign(ctx context.Context, id, courierID string) (*domain.Delivery, error)
	Start(ctx context.Context, id string) (*domain.Delivery, error)
	Complete(ctx context.Context, id string, evidence domain.Evidence) (*domain.Delivery, error)
	Fail(ctx context.Context, id, reason string) (*domain.Delivery, error)
	ResolveActiveDeliveryForCourier(ctx context.Context, courierID string) (string, bool, error)
	GetRoutePoints(ctx context.Context, id string) ([]domain.RoutePoint, error)
}

// ActiveDeliveryResolver is the slice of DeliveryService ingestion depends on.
type ActiveDeliveryResolver interface {
	ResolveActiveDeliveryForCourier(ctx context.Context, courierID string) (string, bool, error)
}

// RouteDetail is a cleaned route plus its summary.
type RouteDetail struct {
	DeliveryID     string
	Status         domain.DeliveryStatus
	Points         []RoutePointView
	RawPoints      int
	FirstAt        *time.Time
	LastAt         *time.Time
	Duration       time.Duration
	DistanceMeters float64
}

// RoutePointView is a cleaned point exposed to clients.
type RoutePointView struct {
	Location   domain.Coordinate `json:"location"`
	RecordedAt *time.Time        `json:"recorded_at,omitempty"`
	Accuracy   *float64          `json:"accuracy,omitempty"`
}
