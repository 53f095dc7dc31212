package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/99minutos/courier-tracking/internal/core/geo"
)

// Coordinate represents a WGS-84 point.
type Coordinate = geo.Coordinate

// Origin identifies the path a telemetry sample arrived through.
type Origin string

const (
	OriginChannel Origin = "channel"
	OriginBatch   Origin = "batch"
	OriginSocket  Origin = "socket"
)

// TelemetryReport is one raw GPS sample from a courier device. Immutable once stored.
type TelemetryReport struct {
	ID         string     `json:"id,omitempty" bson:"-"`
	CourierID  string     `json:"courier_id" bson:"courier_id"`
	Location   Coordinate `json:"location" bson:"location"`
	Accuracy   *float64   `json:"accuracy,omitempty" bson:"accuracy,omitempty"`
	Speed      *float64   `json:"speed,omitempty" bson:"speed,omitempty"`
	Battery    *float64   `json:"battery,omitempty" bson:"battery,omitempty"`
	RecordedAt time.Time  `json:"recorded_at" bson:"recorded_at"`
	ReceivedAt time.Time  `json:"received_at" bson:"received_at"`
	Origin     Origin     `json:"origin" bson:"origin"`
	DeliveryID string     `json:"delivery_id,omitempty" bson:"delivery_id,omitempty"`
}

// Validate rejects out-of-range coordinates and optional readings.
func (r TelemetryReport) Validate() error {
	if !r.Location.Valid() {
		return fmt.Errorf("%w: coordinate out of range", ErrValidation)
	}
	if r.Accuracy != nil && (*r.Accuracy < 0 || !finite(*r.Accuracy)) {
		return fmt.Errorf("%w: accuracy must be >= 0", ErrValidation)
	}
	if r.Speed != nil && (*r.Speed < 0 || !finite(*r.Speed)) {
		return fmt.Errorf("%w: speed must be >= 0", ErrValidation)
	}
	if r.Battery != nil && (*r.Battery < 0 || *r.Battery > 100 || !finite(*r.Battery)) {
		return fmt.Errorf("%w: battery must be between 0 and 100", ErrValidation)
	}
	return nil
}

// RoutePoint is a TelemetryReport attached to a delivery's trail.
type RoutePoint struct {
	TelemetryReport `bson:",inline"`
}

// NewRoutePoint scopes r to deliveryID.
func NewRoutePoint(r TelemetryReport, deliveryID string) RoutePoint {
	r.DeliveryID = deliveryID
	return RoutePoint{TelemetryReport: r}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
