// Package metrics defines and registers all custom Prometheus metrics for the
// courier tracking service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "courier_tracking"

// ── Telemetry metrics ─────────────────────────────────────────────────────────

// TelemetryReceivedTotal counts samples offered to the ingestor.
// Label:
//   - origin: "channel", "batch" or "socket"
var TelemetryReceivedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_received_total",
		Help:      "Total number of telemetry samples received, by origin.",
	},
	[]string{"origin"},
)

// TelemetryRejectedTotal counts samples dropped before persistence.
// Label:
//   - reason: "invalid", "unauthorized", "forbidden", "duplicate", "decode"
var TelemetryRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_rejected_total",
		Help:      "Total number of telemetry samples dropped, by reason.",
	},
	[]string{"reason"},
)

// TelemetryPersistedTotal counts store writes.
// Label:
//   - stream: "courier" (global history) or "delivery" (route points)
var TelemetryPersistedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "telemetry_persisted_total",
		Help:      "Total number of telemetry rows written, by stream.",
	},
	[]string{"stream"},
)

// IngestDuration measures one ingest call end-to-end.
// Label:
//   - origin: "channel", "batch" or "socket"
var IngestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ingest_duration_seconds",
		Help:      "Duration of an ingest call from receipt to broadcast.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"origin"},
)

// ChannelQueueDepth tracks pending channel messages per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var ChannelQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "channel_queue_depth",
		Help:      "Current number of channel messages pending in each dispatcher worker.",
	},
	[]string{"worker_id"},
)

// ── Live feed metrics ─────────────────────────────────────────────────────────

// LiveObservers tracks connected observers.
// Label:
//   - audience: "dashboard", "courier" or "delivery"
var LiveObservers = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_observers",
		Help:      "Number of connected live observers, by audience.",
	},
	[]string{"audience"},
)

// LiveEventsTotal counts events handed to the hub.
// Label:
//   - type: event type, e.g. "courier:location"
var LiveEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_events_total",
		Help:      "Total number of live events published, by type.",
	},
	[]string{"type"},
)

// LiveObserversDroppedTotal counts observers disconnected for being too slow.
var LiveObserversDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_observers_dropped_total",
		Help:      "Total number of observers dropped because their send buffer was full.",
	},
)

// ── Delivery metrics ──────────────────────────────────────────────────────────

// DeliveryTransitionsTotal counts lifecycle transitions.
// Label:
//   - status: the status entered
var DeliveryTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_transitions_total",
		Help:      "Total number of delivery status transitions, by target status.",
	},
	[]string{"status"},
)

// DeliveryStartConflictsTotal counts start attempts rejected by the
// single in-transit delivery rule.
var DeliveryStartConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "delivery_start_conflicts_total",
		Help:      "Total number of start calls rejected because the courier already had a delivery in transit.",
	},
)

// ── Route metrics ─────────────────────────────────────────────────────────────

// RoutePointsCleaned observes route sizes before and after cleaning.
// Label:
//   - stage: "raw" or "cleaned"
var RoutePointsCleaned = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "route_points",
		Help:      "Number of points in reconstructed routes, before and after cleaning.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	},
	[]string{"stage"},
)
