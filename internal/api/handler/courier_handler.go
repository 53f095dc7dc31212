package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// CourierHandler serves the dispatch map.
type CourierHandler struct {
	service ports.CourierViewService
}

func NewCourierHandler(service ports.CourierViewService) *CourierHandler {
	return &CourierHandler{service: service}
}

// ListLive handles GET /v1/couriers/live.
//
// @Summary      List couriers with a recent position
// @Tags         couriers
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  courierListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/couriers/live [get]
func (h *CourierHandler) ListLive(c echo.Context) error {
	views, err := h.service.ListLive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourierListResponse(views))
}
