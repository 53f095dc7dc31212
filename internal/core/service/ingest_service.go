package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
	"github.com/99minutos/courier-tracking/pkg/metrics"
)

// IngestConfig bounds ingestion work.
type IngestConfig struct {
	// BatchTimeout caps the store work of one ingest call. Zero disables it.
	BatchTimeout time.Duration
	// MaxBatchSize rejects larger uploads up front. Zero disables it.
	MaxBatchSize int
}

// IngestDeps groups the collaborators of the ingestor.
type IngestDeps struct {
	Locations   ports.LocationRepository
	Resolver    ports.ActiveDeliveryResolver
	Couriers    ports.CourierDirectory
	Verifier    ports.IdentityVerifier
	Dedup       ports.TelemetryDedup
	Positions   ports.PositionCache
	Broadcaster ports.Broadcaster
}

// IngestService implements ports.IngestService. Every entry point funnels
// into the same per-report path.
type IngestService struct {
	deps         IngestDeps
	cfg          IngestConfig
	now          func() time.Time
	shuttingDown atomic.Bool
	logger       zerolog.Logger
}

// NewIngestService returns an ingestor. Dedup, Positions and Broadcaster are
// optional.
func NewIngestService(deps IngestDeps, cfg IngestConfig, logger zerolog.Logger) *IngestService {
	return &IngestService{
		deps:   deps,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With().Str("component", "telemetry_ingestor").Logger(),
	}
}

// BeginShutdown stops live broadcasts. Persistence keeps working so in-flight
// reports are not lost.
func (s *IngestService) BeginShutdown() {
	s.shuttingDown.Store(true)
}

// IngestFromChannel handles one pub/sub sample. The capability token must
// belong to an active courier and match the topic's courier segment.
func (s *IngestService) IngestFromChannel(ctx context.Context, msg ports.ChannelMessage) error {
	metrics.TelemetryReceivedTotal.WithLabelValues(string(domain.OriginChannel)).Inc()

	ident, err := s.deps.Verifier.Verify(msg.Token)
	if err != nil {
		metrics.TelemetryRejectedTotal.WithLabelValues("unauthorized").Inc()
		return fmt.Errorf("ingest channel: %w", err)
	}
	if ident.Role != domain.RoleCourier {
		metrics.TelemetryRejectedTotal.WithLabelValues("forbidden").Inc()
		return fmt.Errorf("ingest channel: %w: role %q cannot publish telemetry", domain.ErrForbidden, ident.Role)
	}
	if msg.TopicCourierID != "" && msg.TopicCourierID != ident.ID {
		metrics.TelemetryRejectedTotal.WithLabelValues("forbidden").Inc()
		return fmt.Errorf("ingest channel: %w: token subject does not match topic %s", domain.ErrForbidden, msg.Topic)
	}

	courier, err := s.deps.Couriers.FindByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.TelemetryRejectedTotal.WithLabelValues("forbidden").Inc()
			return fmt.Errorf("ingest channel: %w: unknown courier %s", domain.ErrForbidden, ident.ID)
		}
		return fmt.Errorf("ingest channel: %w: %w", domain.ErrStoreFailure, err)
	}
	if !courier.Active {
		metrics.TelemetryRejectedTotal.WithLabelValues("forbidden").Inc()
		return fmt.Errorf("ingest channel: %w: courier %s is inactive", domain.ErrForbidden, courier.ID)
	}

	// Samples without a device timestamp cannot be told apart, skip dedup.
	if s.deps.Dedup != nil && !msg.Report.RecordedAt.IsZero() {
		isNew, err := s.deps.Dedup.MarkIfNew(ctx, courier.ID, msg.Report.RecordedAt)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("courier_id", courier.ID).Msg("dedup check failed, processing anyway")
		case !isNew:
			metrics.TelemetryRejectedTotal.WithLabelValues("duplicate").Inc()
			s.logger.Debug().Str("courier_id", courier.ID).Time("recorded_at", msg.Report.RecordedAt).Msg("duplicate sample skipped")
			return nil
		}
	}

	receivedAt := msg.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = s.now()
	}

	res, err := s.ingest(ctx, courier.ID, courier.FullName, domain.OriginChannel, []ports.ReportInput{msg.Report}, receivedAt)
	if err != nil {
		return fmt.Errorf("ingest channel: %w", err)
	}
	if res.Accepted == 0 && len(res.Rejected) > 0 {
		return fmt.Errorf("ingest channel: %w: %s", domain.ErrValidation, res.Rejected[0].Reason)
	}
	return nil
}

// IngestBatch handles an authenticated upload. Invalid items are rejected
// individually; valid ones are persisted in order.
func (s *IngestService) IngestBatch(ctx context.Context, courierID string, reports []ports.ReportInput) (*ports.IngestResult, error) {
	if len(reports) == 0 {
		return &ports.IngestResult{}, nil
	}
	if s.cfg.MaxBatchSize > 0 && len(reports) > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit of %d", domain.ErrValidation, len(reports), s.cfg.MaxBatchSize)
	}
	metrics.TelemetryReceivedTotal.WithLabelValues(string(domain.OriginBatch)).Add(float64(len(reports)))
	return s.ingest(ctx, courierID, "", domain.OriginBatch, reports, s.now())
}

// IngestSocket handles one location:update frame from a courier session.
func (s *IngestService) IngestSocket(ctx context.Context, courierID string, report ports.ReportInput) (*ports.IngestResult, error) {
	metrics.TelemetryReceivedTotal.WithLabelValues(string(domain.OriginSocket)).Inc()
	return s.ingest(ctx, courierID, "", domain.OriginSocket, []ports.ReportInput{report}, s.now())
}

// ingest is the shared per-report path. The active delivery is resolved once:
// every report of the call shares one arrival moment.
func (s *IngestService) ingest(
	ctx context.Context,
	courierID, fullName string,
	origin domain.Origin,
	reports []ports.ReportInput,
	receivedAt time.Time,
) (*ports.IngestResult, error) {
	start := time.Now()
	defer func() {
		metrics.IngestDuration.WithLabelValues(string(origin)).Observe(time.Since(start).Seconds())
	}()

	// Writes outlive the caller: an abandoned request still persists.
	writeCtx := context.WithoutCancel(ctx)
	if s.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(writeCtx, s.cfg.BatchTimeout)
		defer cancel()
	}

	deliveryID, active, err := s.deps.Resolver.ResolveActiveDeliveryForCourier(writeCtx, courierID)
	if err != nil {
		return nil, s.storeError(writeCtx, "resolve active delivery", err)
	}

	result := &ports.IngestResult{}
	if active {
		id := deliveryID
		result.DeliveryID = &id
	}

	var latest *domain.TelemetryReport
	for i, in := range reports {
		if writeCtx.Err() != nil {
			return result, fmt.Errorf("%w: %d of %d reports processed", domain.ErrBatchTimeout, i, len(reports))
		}

		report := domain.TelemetryReport{
			CourierID:  courierID,
			Location:   domain.Coordinate{Lat: in.Lat, Lng: in.Lng},
			Accuracy:   in.Accuracy,
			Speed:      in.Speed,
			Battery:    in.Battery,
			RecordedAt: in.RecordedAt,
			ReceivedAt: receivedAt,
			Origin:     origin,
		}
		if report.RecordedAt.IsZero() {
			report.RecordedAt = receivedAt
		}
		if active {
			report.DeliveryID = deliveryID
		}

		if err := report.Validate(); err != nil {
			metrics.TelemetryRejectedTotal.WithLabelValues("invalid").Inc()
			result.Rejected = append(result.Rejected, ports.RejectedReport{Index: i, Reason: err.Error()})
			continue
		}

		if err := s.deps.Locations.AppendTelemetry(writeCtx, &report); err != nil {
			return result, s.storeError(writeCtx, "append telemetry", err)
		}
		metrics.TelemetryPersistedTotal.WithLabelValues("courier").Inc()

		if active {
			point := domain.NewRoutePoint(report, deliveryID)
			if err := s.deps.Locations.AppendRoutePoint(writeCtx, &point); err != nil {
				return result, s.storeError(writeCtx, "append route point", err)
			}
			metrics.TelemetryPersistedTotal.WithLabelValues("delivery").Inc()
		}

		result.Accepted++
		if latest == nil || !report.RecordedAt.Before(latest.RecordedAt) {
			r := report
			latest = &r
		}
	}

	if latest != nil {
		s.publish(writeCtx, fullName, latest, result)
	}

	s.logger.Debug().
		Str("courier_id", courierID).
		Str("origin", string(origin)).
		Int("accepted", result.Accepted).
		Int("rejected", len(result.Rejected)).
		Msg("telemetry ingested")
	return result, nil
}

// publish refreshes the session cache and pushes the latest point of the
// call. A point older than the cached position is acknowledged but not
// broadcast.
func (s *IngestService) publish(ctx context.Context, fullName string, latest *domain.TelemetryReport, result *ports.IngestResult) {
	if fullName == "" && s.deps.Couriers != nil {
		if c, err := s.deps.Couriers.FindByID(ctx, latest.CourierID); err == nil {
			fullName = c.FullName
		}
	}

	ev := ports.PositionEvent{
		CourierID:  latest.CourierID,
		FullName:   fullName,
		Location:   latest.Location,
		Accuracy:   latest.Accuracy,
		Speed:      latest.Speed,
		Battery:    latest.Battery,
		RecordedAt: latest.RecordedAt,
		DeliveryID: latest.DeliveryID,
	}

	current := true
	if s.deps.Positions != nil {
		stored, err := s.deps.Positions.Set(ctx, ev)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("courier_id", ev.CourierID).Msg("failed to update position cache")
		case !stored:
			current = false
			s.logger.Debug().
				Str("courier_id", ev.CourierID).
				Time("recorded_at", ev.RecordedAt).
				Msg("newer position already cached, broadcast skipped")
		}
	}

	if s.deps.Broadcaster == nil || s.shuttingDown.Load() {
		return
	}
	if current {
		s.deps.Broadcaster.PublishPosition(ev)
	}
	s.deps.Broadcaster.SendToCourier(ev.CourierID, ports.EventLocationAck, ports.LocationAck{
		Accepted:   result.Accepted,
		Rejected:   len(result.Rejected),
		DeliveryID: result.DeliveryID,
	})
}

// storeError classifies a failed write. A write cut short by the batch
// deadline reports ErrBatchTimeout; anything else is ErrStoreFailure.
func (s *IngestService) storeError(ctx context.Context, op string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBatchTimeout, err)
	}
	s.logger.Error().Err(err).Str("op", op).Msg("telemetry store failure")
	if errors.Is(err, domain.ErrStoreFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreFailure, err)
}
