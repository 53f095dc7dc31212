package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
	"github.com/99minutos/courier-tracking/internal/core/routeclean"
	"github.com/99minutos/courier-tracking/pkg/metrics"
)

// TrackingConfig caps the size of returned routes. Zero means unbounded.
type TrackingConfig struct {
	PublicMaxPoints int
	DetailMaxPoints int
}

// TrackingService implements ports.TrackingService.
type TrackingService struct {
	deliveries ports.DeliveryRepository
	locations  ports.LocationRepository
	cleaner    *routeclean.Cleaner
	cfg        TrackingConfig
	logger     zerolog.Logger
}

func NewTrackingService(
	deliveries ports.DeliveryRepository,
	locations ports.LocationRepository,
	cleaner *routeclean.Cleaner,
	cfg TrackingConfig,
	logger zerolog.Logger,
) *TrackingService {
	return &TrackingService{
		deliveries: deliveries,
		locations:  locations,
		cleaner:    cleaner,
		cfg:        cfg,
		logger:     logger.With().Str("component", "public_tracking").Logger(),
	}
}

// Resolve maps a tracking token to its delivery id. Unknown and malformed
// tokens both yield domain.ErrDeliveryNotFound.
func (s *TrackingService) Resolve(ctx context.Context, token string) (string, error) {
	d, err := s.byToken(ctx, token)
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

// GetPublicView returns what an anonymous holder of the token may see. The
// position and route are only exposed while the delivery is in transit.
func (s *TrackingService) GetPublicView(ctx context.Context, token string) (*ports.PublicView, error) {
	d, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}

	view := &ports.PublicView{Status: d.Status}
	if d.Status != domain.StatusInTransit {
		return view, nil
	}

	latest, err := s.locations.LatestForDelivery(ctx, d.ID)
	switch {
	case err == nil:
		v := toView(pointOf(latest))
		view.LatestPosition = &v
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	cleaned, err := s.cleanedRoute(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	view.CleanedRoute = toViews(routeclean.Downsample(cleaned, s.cfg.PublicMaxPoints))
	return view, nil
}

// GetRouteDetail returns the cleaned route of any delivery.
func (s *TrackingService) GetRouteDetail(ctx context.Context, deliveryID string) (*ports.RouteDetail, error) {
	d, err := s.deliveries.FindByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, d)
}

// GetRouteDetailByToken is GetRouteDetail addressed by tracking token.
func (s *TrackingService) GetRouteDetailByToken(ctx context.Context, token string) (*ports.RouteDetail, error) {
	d, err := s.byToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, d)
}

func (s *TrackingService) byToken(ctx context.Context, token string) (*domain.Delivery, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrDeliveryNotFound
	}
	d, err := s.deliveries.FindByTrackingToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrDeliveryNotFound
		}
		return nil, err
	}
	return d, nil
}

func (s *TrackingService) detail(ctx context.Context, d *domain.Delivery) (*ports.RouteDetail, error) {
	raw, err := s.locations.RoutePoints(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	cleaned := s.clean(raw)
	summary := routeclean.Summarize(cleaned)

	return &ports.RouteDetail{
		DeliveryID:     d.ID,
		Status:         d.Status,
		Points:         toViews(routeclean.Downsample(cleaned, s.cfg.DetailMaxPoints)),
		RawPoints:      len(raw),
		FirstAt:        summary.FirstAt,
		LastAt:         summary.LastAt,
		Duration:       summary.Duration,
		DistanceMeters: summary.DistanceMeters,
	}, nil
}

func (s *TrackingService) cleanedRoute(ctx context.Context, deliveryID string) ([]routeclean.Point, error) {
	raw, err := s.locations.RoutePoints(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return s.clean(raw), nil
}

func (s *TrackingService) clean(raw []domain.RoutePoint) []routeclean.Point {
	points := make([]routeclean.Point, len(raw))
	for i := range raw {
		points[i] = pointOf(&raw[i])
	}
	cleaned := s.cleaner.Clean(points)

	metrics.RoutePointsCleaned.WithLabelValues("raw").Observe(float64(len(points)))
	metrics.RoutePointsCleaned.WithLabelValues("cleaned").Observe(float64(len(cleaned)))
	return cleaned
}

func pointOf(p *domain.RoutePoint) routeclean.Point {
	return routeclean.Point{
		Location:   p.Location,
		RecordedAt: p.RecordedAt,
		Accuracy:   p.Accuracy,
	}
}

func toView(p routeclean.Point) ports.RoutePointView {
	v := ports.RoutePointView{Location: p.Location, Accuracy: p.Accuracy}
	if !p.RecordedAt.IsZero() {
		t := p.RecordedAt
		v.RecordedAt = &t
	}
	return v
}

func toViews(points []routeclean.Point) []ports.RoutePointView {
	out := make([]ports.RoutePointView, len(points))
	for i, p := range points {
		out[i] = toView(p)
	}
	return out
}
