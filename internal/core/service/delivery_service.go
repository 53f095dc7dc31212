package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
	"github.com/99minutos/courier-tracking/pkg/metrics"
)

// trackingTokenBytes is the entropy of a public tracking token (256 bits).
const trackingTokenBytes = 32

// DeliveryService implements ports.DeliveryService.
type DeliveryService struct {
	repo      ports.DeliveryRepository
	locations ports.LocationRepository
	broadcast ports.Broadcaster
	locks     *courierLocks
	now       func() time.Time
	logger    zerolog.Logger
}

// NewDeliveryService wires the registry. broadcast may be nil when no live
// feed is attached.
func NewDeliveryService(
	repo ports.DeliveryRepository,
	locations ports.LocationRepository,
	broadcast ports.Broadcaster,
	logger zerolog.Logger,
) *DeliveryService {
	return &DeliveryService{
		repo:      repo,
		locations: locations,
		broadcast: broadcast,
		locks:     newCourierLocks(),
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With().Str("component", "delivery_registry").Logger(),
	}
}

// Create registers a new delivery. It starts pending, or assigned when a
// courier is already known. The tracking token is generated here, once.
func (s *DeliveryService) Create(ctx context.Context, in ports.CreateDeliveryInput) (*domain.Delivery, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, fmt.Errorf("%w: customer_id is required", domain.ErrValidation)
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityNormal
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, priority)
	}
	if in.Schedule.Destination != nil && !in.Schedule.Destination.Valid() {
		return nil, fmt.Errorf("%w: destination coordinate out of range", domain.ErrValidation)
	}

	token, err := generateTrackingToken()
	if err != nil {
		return nil, fmt.Errorf("create delivery: tracking token: %w", err)
	}

	now := s.now()
	d := &domain.Delivery{
		ID:            uuid.NewString(),
		CustomerID:    in.CustomerID,
		Status:        domain.StatusPending,
		Priority:      priority,
		Schedule:      in.Schedule,
		TrackingToken: token,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.CourierID != "" {
		d.CourierID = in.CourierID
		d.Status = domain.StatusAssigned
		d.AssignedAt = &now
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error().Err(err).Msg("failed to create delivery")
		return nil, err
	}

	metrics.DeliveryTransitionsTotal.WithLabelValues(string(d.Status)).Inc()
	s.logger.Info().Str("delivery_id", d.ID).Str("status", string(d.Status)).Msg("delivery created")
	return d, nil
}

// Get returns a delivery by id.
func (s *DeliveryService) Get(ctx context.Context, id string) (*domain.Delivery, error) {
	return s.repo.FindByID(ctx, id)
}

// Assign sets the courier of a pending or assigned delivery.
func (s *DeliveryService) Assign(ctx context.Context, id, courierID string) (*domain.Delivery, error) {
	if strings.TrimSpace(courierID) == "" {
		return nil, fmt.Errorf("%w: courier_id is required", domain.ErrValidation)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.StatusAssigned) {
		return nil, invalidState("assign", current.Status)
	}

	now := s.now()
	next := *current
	next.CourierID = courierID
	next.Status = domain.StatusAssigned
	next.AssignedAt = &now
	next.UpdatedAt = now

	if err := s.repo.CompareAndSwap(ctx, &next, current.Status); err != nil {
		return nil, fmt.Errorf("assign delivery: %w", err)
	}
	s.transitioned(&next)
	return &next, nil
}

// Start moves an assigned delivery in transit. The check that the courier has
// no other delivery in transit and the transition itself run under the
// courier's lock; the store's uniqueness constraint backs it across processes.
func (s *DeliveryService) Start(ctx context.Context, id string) (*domain.Delivery, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusAssigned || current.CourierID == "" {
		return nil, invalidState("start", current.Status)
	}

	unlock := s.locks.lock(current.CourierID)
	defer unlock()

	// Re-read under the lock: a concurrent assign or start may have won.
	current, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusAssigned || current.CourierID == "" {
		return nil, invalidState("start", current.Status)
	}

	active, err := s.repo.FindActiveByCourier(ctx, current.CourierID)
	switch {
	case err == nil && active.ID != current.ID:
		metrics.DeliveryStartConflictsTotal.Inc()
		return nil, fmt.Errorf("start delivery: %w (active delivery %s)", domain.ErrConflictActiveDelivery, active.ID)
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("start delivery: %w", err)
	}

	now := s.now()
	next := *current
	next.Status = domain.StatusInTransit
	next.StartedAt = &now
	next.UpdatedAt = now

	if err := s.repo.CompareAndSwap(ctx, &next, domain.StatusAssigned); err != nil {
		if errors.Is(err, domain.ErrConflictActiveDelivery) {
			metrics.DeliveryStartConflictsTotal.Inc()
		}
		return nil, fmt.Errorf("start delivery: %w", err)
	}
	s.transitioned(&next)
	return &next, nil
}

// Complete closes an in-transit delivery with proof of delivery. The state is
// checked before the evidence, so a wrong state always reports ErrInvalidState.
func (s *DeliveryService) Complete(ctx context.Context, id string, evidence domain.Evidence) (*domain.Delivery, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusInTransit {
		return nil, invalidState("complete", current.Status)
	}
	if err := evidence.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	next := *current
	next.Status = domain.StatusDelivered
	next.Evidence = &evidence
	next.CompletedAt = &now
	next.UpdatedAt = now

	if err := s.repo.CompareAndSwap(ctx, &next, domain.StatusInTransit); err != nil {
		return nil, fmt.Errorf("complete delivery: %w", err)
	}
	s.transitioned(&next)
	return &next, nil
}

// Fail marks an assigned or in-transit delivery as failed.
func (s *DeliveryService) Fail(ctx context.Context, id, reason string) (*domain.Delivery, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", domain.ErrValidation)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(domain.StatusFailed) {
		return nil, invalidState("fail", current.Status)
	}

	now := s.now()
	next := *current
	next.Status = domain.StatusFailed
	next.FailureReason = reason
	next.FailedAt = &now
	next.UpdatedAt = now

	if err := s.repo.CompareAndSwap(ctx, &next, current.Status); err != nil {
		return nil, fmt.Errorf("fail delivery: %w", err)
	}
	s.transitioned(&next)
	return &next, nil
}

// ResolveActiveDeliveryForCourier returns the courier's in-transit delivery id.
func (s *DeliveryService) ResolveActiveDeliveryForCourier(ctx context.Context, courierID string) (string, bool, error) {
	d, err := s.repo.FindActiveByCourier(ctx, courierID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return d.ID, true, nil
}

// GetRoutePoints returns the raw trail in store arrival order.
func (s *DeliveryService) GetRoutePoints(ctx context.Context, id string) ([]domain.RoutePoint, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.locations.RoutePoints(ctx, id)
}

func (s *DeliveryService) transitioned(d *domain.Delivery) {
	metrics.DeliveryTransitionsTotal.WithLabelValues(string(d.Status)).Inc()
	s.logger.Info().
		Str("delivery_id", d.ID).
		Str("courier_id", d.CourierID).
		Str("status", string(d.Status)).
		Msg("delivery transitioned")
	if s.broadcast != nil {
		s.broadcast.PublishDeliveryStatusChanged(d.ID, d.Status, d.CourierID)
	}
}

func invalidState(op string, from domain.DeliveryStatus) error {
	return fmt.Errorf("%s delivery: %w (status %s)", op, domain.ErrInvalidState, from)
}

// generateTrackingToken returns 256 random bits, base64url encoded.
func generateTrackingToken() (string, error) {
	b := make([]byte, trackingTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
