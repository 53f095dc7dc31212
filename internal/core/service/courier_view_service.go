package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// CourierViewService implements ports.CourierViewService.
type CourierViewService struct {
	positions  ports.PositionCache
	couriers   ports.CourierDirectory
	deliveries ports.DeliveryRepository
	broadcast  ports.Broadcaster
	logger     zerolog.Logger
}

func NewCourierViewService(
	positions ports.PositionCache,
	couriers ports.CourierDirectory,
	deliveries ports.DeliveryRepository,
	broadcast ports.Broadcaster,
	logger zerolog.Logger,
) *CourierViewService {
	return &CourierViewService{
		positions:  positions,
		couriers:   couriers,
		deliveries: deliveries,
		broadcast:  broadcast,
		logger:     logger.With().Str("component", "courier_view").Logger(),
	}
}

// ListLive returns every courier with a cached position, sorted by id.
// Directory misses keep the courier on the map without a name.
func (s *CourierViewService) ListLive(ctx context.Context) ([]ports.CourierLiveView, error) {
	cached, err := s.positions.All(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.CourierLiveView, 0, len(cached))
	for i := range cached {
		pos := cached[i]
		view := ports.CourierLiveView{
			CourierID: pos.CourierID,
			FullName:  pos.FullName,
			Position:  &pos,
		}

		if c, err := s.couriers.FindByID(ctx, pos.CourierID); err == nil {
			view.FullName = c.FullName
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("courier_id", pos.CourierID).Msg("courier lookup failed")
		}

		open, err := s.deliveries.CountOpenByCourier(ctx, pos.CourierID)
		if err != nil {
			return nil, err
		}
		view.OpenDeliveries = open

		if s.broadcast != nil {
			view.Online = s.broadcast.IsCourierOnline(pos.CourierID)
		}
		views = append(views, view)
	}

	sort.Slice(views, func(i, j int) bool { return views[i].CourierID < views[j].CourierID })
	return views, nil
}
