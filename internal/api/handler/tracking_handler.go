package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// TrackingHandler serves the unauthenticated tracking page endpoints.
type TrackingHandler struct {
	service ports.TrackingService
}

func NewTrackingHandler(service ports.TrackingService) *TrackingHandler {
	return &TrackingHandler{service: service}
}

// PublicView handles GET /v1/public/tracking/:token.
//
// @Summary      Public tracking view
// @Description  Position and route are only present while the delivery is in transit. Unknown tokens return 404.
// @Tags         tracking
// @Produce      json
// @Param        token  path      string  true  "Tracking token"
// @Success      200    {object}  publicTrackingResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/public/tracking/{token} [get]
func (h *TrackingHandler) PublicView(c echo.Context) error {
	view, err := h.service.GetPublicView(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPublicTrackingResponse(view))
}

// PublicRoute handles GET /v1/public/tracking/:token/route.
//
// @Summary      Cleaned route by tracking token
// @Tags         tracking
// @Produce      json
// @Param        token  path      string  true  "Tracking token"
// @Success      200    {object}  routeResponse
// @Failure      404    {object}  errorResponse
// @Router       /v1/public/tracking/{token}/route [get]
func (h *TrackingHandler) PublicRoute(c echo.Context) error {
	detail, err := h.service.GetRouteDetailByToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return err
	}
	resp := toRouteResponse(detail)
	resp.DeliveryID = ""
	return c.JSON(http.StatusOK, resp)
}
