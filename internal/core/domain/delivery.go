package domain

import (
	"fmt"
	"time"
)

// DeliveryStatus represents the lifecycle state of a delivery.
type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusAssigned  DeliveryStatus = "assigned"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
)

// validTransitions defines the allowed state machine transitions.
// assigned -> assigned is a courier reassignment before the route starts.
var validTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending:   {StatusAssigned},
	StatusAssigned:  {StatusAssigned, StatusInTransit, StatusFailed},
	StatusInTransit: {StatusDelivered, StatusFailed},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInTransit, StatusDelivered, StatusFailed:
		return true
	}
	return false
}

// Priority orders deliveries for dispatch. Descriptive only; the lifecycle ignores it.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 10
)

// Schedule carries the dispatch window and drop-off details.
type Schedule struct {
	WindowStart time.Time   `json:"window_start,omitempty" bson:"window_start,omitempty"`
	WindowEnd   time.Time   `json:"window_end,omitempty" bson:"window_end,omitempty"`
	Address     string      `json:"address,omitempty" bson:"address,omitempty"`
	Destination *Coordinate `json:"destination,omitempty" bson:"destination,omitempty"`
	Notes       string      `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Evidence is the proof of delivery captured at completion.
type Evidence struct {
	PhotoRef     string     `json:"photo_ref" bson:"photo_ref"`
	SignatureRef string     `json:"signature_ref" bson:"signature_ref"`
	Location     Coordinate `json:"location" bson:"location"`
	Notes        string     `json:"notes,omitempty" bson:"notes,omitempty"`
	Rating       int        `json:"rating" bson:"rating"`
}

// Validate checks that every required piece of evidence is present.
func (e Evidence) Validate() error {
	if e.PhotoRef == "" {
		return fmt.Errorf("%w: photo reference is required", ErrValidation)
	}
	if e.SignatureRef == "" {
		return fmt.Errorf("%w: signature reference is required", ErrValidation)
	}
	if !e.Location.Valid() {
		return fmt.Errorf("%w: completion coordinate is out of range", ErrValidation)
	}
	if e.Rating < MinRating || e.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrValidation, MinRating, MaxRating)
	}
	return nil
}

// Delivery is the core aggregate root.
type Delivery struct {
	ID            string         `json:"id" bson:"_id"`
	CustomerID    string         `json:"customer_id" bson:"customer_id"`
	CourierID     string         `json:"courier_id,omitempty" bson:"courier_id,omitempty"`
	Status        DeliveryStatus `json:"status" bson:"status"`
	Priority      Priority       `json:"priority" bson:"priority"`
	Schedule      Schedule       `json:"schedule" bson:"schedule"`
	Evidence      *Evidence      `json:"evidence,omitempty" bson:"evidence,omitempty"`
	FailureReason string         `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	TrackingToken string         `json:"-" bson:"tracking_token"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at"`
	AssignedAt    *time.Time     `json:"assigned_at,omitempty" bson:"assigned_at,omitempty"`
	StartedAt     *time.Time     `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	FailedAt      *time.Time     `json:"failed_at,omitempty" bson:"failed_at,omitempty"`
	// Version counts stored revisions and guards compare-and-swap updates.
	Version int64 `json:"-" bson:"version"`
}
