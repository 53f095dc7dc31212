package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// RouteDetailer serves cleaned routes by delivery id.
type RouteDetailer interface {
	GetRouteDetail(ctx context.Context, deliveryID string) (*ports.RouteDetail, error)
}

// DeliveryHandler handles HTTP requests for the delivery lifecycle.
type DeliveryHandler struct {
	service ports.DeliveryService
	routes  RouteDetailer
}

func NewDeliveryHandler(service ports.DeliveryService, routes RouteDetailer) *DeliveryHandler {
	return &DeliveryHandler{service: service, routes: routes}
}

// Create handles POST /v1/deliveries.
//
// @Summary      Create a delivery
// @Description  The response carries the public tracking token; it is not returned by any other endpoint.
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDeliveryRequest  true  "Delivery"
// @Success      201   {object}  createDeliveryResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/deliveries [post]
func (h *DeliveryHandler) Create(c echo.Context) error {
	var req createDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	d, err := h.service.Create(c.Request().Context(), toCreateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCreateDeliveryResponse(d))
}

// Get handles GET /v1/deliveries/:id.
//
// @Summary      Get a delivery
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  deliveryResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/deliveries/{id} [get]
func (h *DeliveryHandler) Get(c echo.Context) error {
	d, err := h.authorized(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryResponse(d))
}

// Assign handles POST /v1/deliveries/:id/assign.
//
// @Summary      Assign a courier
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Delivery ID"
// @Param        body  body      assignDeliveryRequest  true  "Courier"
// @Success      200   {object}  deliveryResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/deliveries/{id}/assign [post]
func (h *DeliveryHandler) Assign(c echo.Context) error {
	var req assignDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	d, err := h.service.Assign(c.Request().Context(), c.Param("id"), req.CourierID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryResponse(d))
}

// Start handles POST /v1/deliveries/:id/start.
//
// @Summary      Start a delivery
// @Description  Fails with 409 when the courier already has a delivery in transit.
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  deliveryResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/deliveries/{id}/start [post]
func (h *DeliveryHandler) Start(c echo.Context) error {
	if _, err := h.authorized(c); err != nil {
		return err
	}

	d, err := h.service.Start(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryResponse(d))
}

// Complete handles POST /v1/deliveries/:id/complete.
//
// @Summary      Complete a delivery with proof of delivery
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Delivery ID"
// @Param        body  body      completeDeliveryRequest  true  "Evidence"
// @Success      200   {object}  deliveryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/deliveries/{id}/complete [post]
func (h *DeliveryHandler) Complete(c echo.Context) error {
	var req completeDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if _, err := h.authorized(c); err != nil {
		return err
	}

	d, err := h.service.Complete(c.Request().Context(), c.Param("id"), toEvidence(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryResponse(d))
}

// Fail handles POST /v1/deliveries/:id/fail.
//
// @Summary      Mark a delivery as failed
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Delivery ID"
// @Param        body  body      failDeliveryRequest  true  "Reason"
// @Success      200   {object}  deliveryResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/deliveries/{id}/fail [post]
func (h *DeliveryHandler) Fail(c echo.Context) error {
	var req failDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if _, err := h.authorized(c); err != nil {
		return err
	}

	d, err := h.service.Fail(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDeliveryResponse(d))
}

// Route handles GET /v1/deliveries/:id/route.
//
// @Summary      Get the cleaned route of a delivery
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  routeResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/deliveries/{id}/route [get]
func (h *DeliveryHandler) Route(c echo.Context) error {
	if _, err := h.authorized(c); err != nil {
		return err
	}

	detail, err := h.routes.GetRouteDetail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRouteResponse(detail))
}

// authorized loads the path delivery and checks the caller may act on it:
// dispatch roles see every delivery, couriers only the ones assigned to them.
func (h *DeliveryHandler) authorized(c echo.Context) (*domain.Delivery, error) {
	id, err := ctxIdentity(c)
	if err != nil {
		return nil, err
	}

	d, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if id.IsDispatch() {
		return d, nil
	}
	if id.Role == domain.RoleCourier && d.CourierID == id.ID {
		return d, nil
	}
	return nil, fmt.Errorf("%w: delivery %s is not assigned to %s", domain.ErrForbidden, d.ID, id.ID)
}
