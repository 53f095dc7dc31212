package ports

import (
	"time"

	"github.com/99minutos/courier-tracking/internal/core/domain"
)

// Live event types. Names are part of the observer wire protocol.
const (
	EventCourierLocation  = "courier:location"
	EventDeliveryUpdated  = "delivery:updated"
	EventCourierOffline   = "courier:offline"
	EventDeliveryLocation = "delivery:location"
	EventLocationAck      = "location:ack"
	EventPong             = "pong"
	EventError            = "error"

	EventLocationUpdate = "location:update"
	EventPing           = "ping"
)

// LocationAck confirms an ingest call to the courier's own sessions.
type LocationAck struct {
	Accepted   int     `json:"accepted"`
	Rejected   int     `json:"rejected"`
	DeliveryID *string `json:"delivery_id"`
}

// PositionEvent is the latest position of a courier pushed to observers.
type PositionEvent struct {
	CourierID  string            `json:"courier_id"`
	FullName   string            `json:"full_name"`
	Location   domain.Coordinate `json:"location"`
	Accuracy   *float64          `json:"accuracy,omitempty"`
	Speed      *float64          `json:"speed,omitempty"`
	Battery    *float64          `json:"battery,omitempty"`
	RecordedAt time.Time         `json:"recorded_at"`
	DeliveryID string            `json:"delivery_id,omitempty"`
}

// Broadcaster delivers live events to connected observers.
//
// Every method is best effort: observers that are disconnected or too slow
// miss the event, nothing is queued for replay, and no error is reported to
// the caller. Events published for one courier reach a given observer in
// publish order.
type Broadcaster interface {
	PublishPosition(ev PositionEvent)
	PublishDeliveryStatusChanged(deliveryID string, status domain.DeliveryStatus, courierID string)
	PublishCourierOffline(courierID string)
	SendToCourier(courierID string, eventType string, data any)
	IsCourierOnline(courierID string) bool
}
