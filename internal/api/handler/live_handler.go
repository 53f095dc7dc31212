package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/infrastructure/live"
)

// TokenResolver maps a public tracking token to its delivery id.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// LiveHandler upgrades requests to live WebSocket sessions.
type LiveHandler struct {
	hub        *live.Hub
	resolver   TokenResolver
	ingestor   live.SocketIngestor
	upgrader   websocket.Upgrader
	sendBuffer int
	log        zerolog.Logger
}

// NewLiveHandler creates a LiveHandler. Every origin is accepted.
func NewLiveHandler(hub *live.Hub, resolver TokenResolver, ingestor live.SocketIngestor, sendBuffer int, log zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		hub:      hub,
		resolver: resolver,
		ingestor: ingestor,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		sendBuffer: sendBuffer,
		log:        log.With().Str("component", "live_handler").Logger(),
	}
}

// Session handles GET /v1/live.
//
// @Summary      Authenticated live feed
// @Description  Admins and dispatchers receive every courier's events; couriers receive their own acknowledgements and may send location:update frames. The token may be passed as ?token= or a bearer header.
// @Tags         live
// @Security     BearerAuth
// @Param        token  query  string  false  "Access token"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  errorResponse
// @Router       /v1/live [get]
func (h *LiveHandler) Session(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if !id.IsDispatch() && id.Role != domain.RoleCourier {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", id.ID).Msg("websocket upgrade failed")
		return nil
	}

	client := live.NewClient(conn, h.hub, &id, h.ingestor, h.sendBuffer, h.log)
	if id.IsDispatch() {
		h.hub.SubscribeDashboard(client)
	} else {
		h.hub.SubscribeCourier(id.ID, client)
	}

	go client.WritePump()
	client.ReadPump(c.Request().Context())
	return nil
}

// PublicFeed handles GET /v1/public/tracking/:token/live.
//
// @Summary      Public live feed for one delivery
// @Description  Streams delivery:location and delivery:updated events. Unknown tokens are rejected before the upgrade.
// @Tags         tracking
// @Param        token  path  string  true  "Tracking token"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      404  {object}  errorResponse
// @Router       /v1/public/tracking/{token}/live [get]
func (h *LiveHandler) PublicFeed(c echo.Context) error {
	deliveryID, err := h.resolver.Resolve(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	client := live.NewClient(conn, h.hub, nil, nil, h.sendBuffer, h.log)
	h.hub.SubscribeDelivery(deliveryID, client)

	go client.WritePump()
	client.ReadPump(c.Request().Context())
	return nil
}
