package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/courier-tracking/docs"
	"github.com/99minutos/courier-tracking/internal/api/handler"
	"github.com/99minutos/courier-tracking/internal/api/middleware"
	"github.com/99minutos/courier-tracking/internal/core/domain"
	"github.com/99minutos/courier-tracking/internal/core/ports"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Telemetry  *handler.TelemetryHandler
	Couriers   *handler.CourierHandler
	Deliveries *handler.DeliveryHandler
	Tracking   *handler.TrackingHandler
	Live       *handler.LiveHandler
	Health     *handler.HealthHandler
	Readiness  *handler.HealthDependenciesHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, verifier ports.IdentityVerifier, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddleware("courier_tracking"))

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", h.Health.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", h.Readiness.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler()) // Prometheus scrape
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	auth := middleware.Auth(verifier)
	dispatch := middleware.RBAC(domain.RoleAdmin, domain.RoleDispatcher)
	courier := middleware.RBAC(domain.RoleCourier)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleDispatcher, domain.RoleCourier)

	v1 := e.Group("/v1")

	// --- Telemetry ---
	v1.POST("/telemetry/batch", h.Telemetry.Batch, auth, courier)
	v1.POST("/couriers/me/channel-token", h.Telemetry.ChannelToken, auth, courier)

	// --- Dispatch map ---
	v1.GET("/couriers/live", h.Couriers.ListLive, auth, dispatch)

	// --- Delivery lifecycle ---
	deliveries := v1.Group("/deliveries", auth)
	deliveries.POST("", h.Deliveries.Create, dispatch)
	deliveries.GET("/:id", h.Deliveries.Get, anyRole)
	deliveries.POST("/:id/assign", h.Deliveries.Assign, dispatch)
	deliveries.POST("/:id/start", h.Deliveries.Start, anyRole)
	deliveries.POST("/:id/complete", h.Deliveries.Complete, anyRole)
	deliveries.POST("/:id/fail", h.Deliveries.Fail, anyRole)
	deliveries.GET("/:id/route", h.Deliveries.Route, anyRole)

	// --- Public tracking (token is the capability) ---
	public := v1.Group("/public/tracking")
	public.GET("/:token", h.Tracking.PublicView)
	public.GET("/:token/route", h.Tracking.PublicRoute)
	public.GET("/:token/live", h.Live.PublicFeed)

	// --- Live sockets ---
	v1.GET("/live", h.Live.Session, middleware.AuthQueryOrHeader(verifier), anyRole)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
