// Package live fans courier positions and delivery updates out to connected
// observers: dispatch dashboards, a courier's own sessions and anonymous
// holders of a tracking token.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
	"github.com/99minutos/courier-tracking/pkg/metrics"
)

// Audience is the group an observer subscribed as.
type Audience string

const (
	AudienceDashboard Audience = "dashboard"
	AudienceCourier   Audience = "courier"
	AudienceDelivery  Audience = "delivery"
)

// Observer receives encoded frames. Send must not block: it reports false
// when the observer cannot take the frame, and the hub then drops it.
type Observer interface {
	Send(frame []byte) bool
	Close()
}

// Envelope is the wire shape of every event.
type Envelope struct {
	Type   string    `json:"type"`
	Data   any       `json:"data"`
	SentAt time.Time `json:"sent_at"`
}

type subscription struct {
	audience Audience
	key      string
}

type observerSet map[Observer]struct{}

// Hub implements ports.Broadcaster. One mutex guards the registry and every
// fan-out, so events published for one courier reach each observer in order.
type Hub struct {
	mu         sync.Mutex
	dashboards observerSet
	couriers   map[string]observerSet
	deliveries map[string]observerSet
	index      map[Observer]subscription
	now        func() time.Time
	log        zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		dashboards: make(observerSet),
		couriers:   make(map[string]observerSet),
		deliveries: make(map[string]observerSet),
		index:      make(map[Observer]subscription),
		now:        func() time.Time { return time.Now().UTC() },
		log:        log.With().Str("component", "live_hub").Logger(),
	}
}

// SubscribeDashboard registers a dispatch observer.
func (h *Hub) SubscribeDashboard(o Observer) {
	h.subscribe(o, subscription{audience: AudienceDashboard})
}

// SubscribeCourier registers one of courierID's own sessions.
func (h *Hub) SubscribeCourier(courierID string, o Observer) {
	h.subscribe(o, subscription{audience: AudienceCourier, key: courierID})
}

// SubscribeDelivery registers a public observer of deliveryID.
func (h *Hub) SubscribeDelivery(deliveryID string, o Observer) {
	h.subscribe(o, subscription{audience: AudienceDelivery, key: deliveryID})
}

func (h *Hub) subscribe(o Observer, sub subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.index[o]; ok {
		return
	}
	h.index[o] = sub
	switch sub.audience {
	case AudienceDashboard:
		h.dashboards[o] = struct{}{}
	case AudienceCourier:
		addTo(h.couriers, sub.key, o)
	case AudienceDelivery:
		addTo(h.deliveries, sub.key, o)
	}
	metrics.LiveObservers.WithLabelValues(string(sub.audience)).Inc()
	h.log.Debug().Str("audience", string(sub.audience)).Str("key", sub.key).Msg("observer subscribed")
}

// Unsubscribe removes o. When it was a courier's last session the
// dashboards are told the courier went offline.
func (h *Hub) Unsubscribe(o Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if offline := h.removeLocked(o); offline != "" {
		h.courierOfflineLocked(offline)
	}
}

// PublishPosition sends courier:location to dashboards and, when the point
// belongs to a delivery, delivery:location to its public observers.
func (h *Hub) PublishPosition(ev ports.PositionEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fanOutLocked(h.dashboards, ports.EventCourierLocation, ev)
	if ev.DeliveryID != "" {
		h.fanOutLocked(h.deliveries[ev.DeliveryID], ports.EventDeliveryLocation, publicPosition{
			Location:   ev.Location,
			RecordedAt: ev.RecordedAt,
		})
	}
}

// PublishDeliveryStatusChanged sends delivery:updated to dashboards and a
// status-only payload to the delivery's public observers.
func (h *Hub) PublishDeliveryStatusChanged(deliveryID string, status domain.DeliveryStatus, courierID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.fanOutLocked(h.dashboards, ports.EventDeliveryUpdated, deliveryUpdate{
		DeliveryID: deliveryID,
		Status:     status,
		CourierID:  courierID,
	})
	h.fanOutLocked(h.deliveries[deliveryID], ports.EventDeliveryUpdated, publicStatus{Status: status})
}

// PublishCourierOffline sends courier:offline to dashboards.
func (h *Hub) PublishCourierOffline(courierID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.courierOfflineLocked(courierID)
}

// SendToCourier pushes an event to every session of courierID.
func (h *Hub) SendToCourier(courierID string, eventType string, data any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fanOutLocked(h.couriers[courierID], eventType, data)
}

// IsCourierOnline reports whether courierID has at least one session.
func (h *Hub) IsCourierOnline(courierID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.couriers[courierID]) > 0
}

// Counts returns the number of observers per audience.
func (h *Hub) Counts() map[Audience]int {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := map[Audience]int{AudienceDashboard: 0, AudienceCourier: 0, AudienceDelivery: 0}
	for _, sub := range h.index {
		out[sub.audience]++
	}
	return out
}

// CloseAll disconnects every observer. Used at shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for o := range h.index {
		h.removeLocked(o)
		o.Close()
	}
}

// Public observers already know which delivery they follow, so their
// payloads carry neither the delivery nor the courier.
type publicPosition struct {
	Location   domain.Coordinate `json:"location"`
	RecordedAt time.Time         `json:"recorded_at"`
}

type publicStatus struct {
	Status domain.DeliveryStatus `json:"status"`
}

type deliveryUpdate struct {
	DeliveryID string                `json:"delivery_id"`
	Status     domain.DeliveryStatus `json:"status"`
	CourierID  string                `json:"courier_id,omitempty"`
}

type courierOffline struct {
	CourierID string `json:"courier_id"`
}

func (h *Hub) courierOfflineLocked(courierID string) {
	h.fanOutLocked(h.dashboards, ports.EventCourierOffline, courierOffline{CourierID: courierID})
}

// fanOutLocked encodes once and offers the frame to every observer in set.
// Observers that refuse it are dropped and closed.
func (h *Hub) fanOutLocked(set observerSet, eventType string, data any) {
	if len(set) == 0 {
		return
	}
	frame, err := Encode(eventType, data, h.now())
	if err != nil {
		h.log.Error().Err(err).Str("type", eventType).Msg("failed to encode live event")
		return
	}
	metrics.LiveEventsTotal.WithLabelValues(eventType).Inc()

	var dropped []Observer
	for o := range set {
		if !o.Send(frame) {
			dropped = append(dropped, o)
		}
	}

	var offline []string
	for _, o := range dropped {
		if c := h.removeLocked(o); c != "" {
			offline = append(offline, c)
		}
		o.Close()
		metrics.LiveObserversDroppedTotal.Inc()
		h.log.Warn().Str("type", eventType).Msg("slow observer dropped")
	}
	for _, c := range offline {
		h.courierOfflineLocked(c)
	}
}

// removeLocked unregisters o and returns the courier id when o was that
// courier's last session.
func (h *Hub) removeLocked(o Observer) string {
	sub, ok := h.index[o]
	if !ok {
		return ""
	}
	delete(h.index, o)
	metrics.LiveObservers.WithLabelValues(string(sub.audience)).Dec()

	switch sub.audience {
	case AudienceDashboard:
		delete(h.dashboards, o)
	case AudienceCourier:
		if removeFrom(h.couriers, sub.key, o) {
			return sub.key
		}
	case AudienceDelivery:
		removeFrom(h.deliveries, sub.key, o)
	}
	return ""
}

func addTo(m map[string]observerSet, key string, o Observer) {
	set, ok := m[key]
	if !ok {
		set = make(observerSet)
		m[key] = set
	}
	set[o] = struct{}{}
}

// removeFrom deletes o and reports whether the key's set became empty.
func removeFrom(m map[string]observerSet, key string, o Observer) bool {
	set, ok := m[key]
	if !ok {
		return false
	}
	delete(set, o)
	if len(set) == 0 {
		delete(m, key)
		return true
	}
	return false
}

// Encode renders an event envelope.
func Encode(eventType string, data any, sentAt time.Time) ([]byte, error) {
	return json.Marshal(Envelope{Type: eventType, Data: data, SentAt: sentAt})
}
