// Package app wires the courier tracking service together and owns its
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/courier-tracking/internal/api"
	"github.com/99minutos/courier-tracking/internal/api/handler"
	"github.com/99minutos/courier-tracking/internal/core/routeclean"
	"github.com/99minutos/courier-tracking/internal/core/service"
	"github.com/99minutos/courier-tracking/internal/infrastructure/config"
	"github.com/99minutos/courier-tracking/internal/infrastructure/db/mongo"
	"github.com/99minutos/courier-tracking/internal/infrastructure/db/redis"
	"github.com/99minutos/courier-tracking/internal/infrastructure/live"
	"github.com/99minutos/courier-tracking/internal/infrastructure/pubsub"
	"github.com/99minutos/courier-tracking/internal/infrastructure/queue"
)

// App holds every long-lived collaborator of the process.
type App struct {
	cfg *config.Config
	log zerolog.Logger

	mongoClient *gomongo.Client
	redis       *goredis.Client

	ingest     *service.IngestService
	hub        *live.Hub
	dispatcher *queue.Dispatcher
	subscriber *pubsub.Subscriber
	echo       *echo.Echo
}

// New connects to the stores, ensures indexes and builds the HTTP router.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return nil, err
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Timeout:  cfg.Redis.Timeout,
	})
	if err != nil {
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}

	// --- Stores ---
	deliveryRepo := mongo.NewDeliveryRepository(db)
	locationRepo := mongo.NewLocationRepository(db)
	courierRepo := mongo.NewCourierRepository(db)
	if err := mongo.EnsureIndexes(ctx, deliveryRepo, locationRepo); err != nil {
		_ = rdb.Close()
		_ = mongoClient.Disconnect(context.Background())
		return nil, err
	}
	dedup := redis.NewDedupChecker(rdb, cfg.Telemetry.DedupTTL)
	positions := redis.NewPositionCache(rdb, cfg.Live.PositionStaleAfter)

	// --- Core ---
	hub := live.NewHub(log)
	identity := service.NewIdentityService(cfg.JWTSecret, cfg.Telemetry.ChannelTokenTTL, cfg.JWTIssuer)
	deliveries := service.NewDeliveryService(deliveryRepo, locationRepo, hub, log)
	ingest := service.NewIngestService(service.IngestDeps{
		Locations:   locationRepo,
		Resolver:    deliveries,
		Couriers:    courierRepo,
		Verifier:    identity,
		Dedup:       dedup,
		Positions:   positions,
		Broadcaster: hub,
	}, service.IngestConfig{
		BatchTimeout: cfg.Telemetry.BatchTimeout,
		MaxBatchSize: cfg.Telemetry.MaxBatchSize,
	}, log)
	cleaner := routeclean.New(routeclean.Options{
		MinStepMeters:   cfg.Route.MinStepMeters,
		MaxSpeedKmh:     cfg.Route.MaxSpeedKmh,
		MaxJumpMeters:   cfg.Route.MaxJumpMeters,
		SmoothingWindow: cfg.Route.SmoothingWindow,
	})
	tracking := service.NewTrackingService(deliveryRepo, locationRepo, cleaner, service.TrackingConfig{
		PublicMaxPoints: cfg.Route.PublicMaxPoints,
		DetailMaxPoints: cfg.Route.DetailMaxPoints,
	}, log)
	courierViews := service.NewCourierViewService(positions, courierRepo, deliveryRepo, hub, log)

	// --- Channel transport ---
	dispatcher := queue.NewDispatcher(cfg.Telemetry.Workers, ingest, log)
	subscriber := pubsub.NewSubscriber(rdb, cfg.Telemetry.TopicPrefix, dispatcher, log)

	// --- HTTP ---
	e := api.NewRouter(api.Handlers{
		Telemetry:  handler.NewTelemetryHandler(ingest, identity, cfg.Telemetry.TopicPrefix),
		Couriers:   handler.NewCourierHandler(courierViews),
		Deliveries: handler.NewDeliveryHandler(deliveries, tracking),
		Tracking:   handler.NewTrackingHandler(tracking),
		Live:       handler.NewLiveHandler(hub, tracking, ingest, cfg.Live.SendBuffer, log),
		Health:     handler.NewHealthHandler(),
		Readiness: handler.NewHealthDependenciesHandler(map[string]handler.Pinger{
			"mongodb": mongo.Ping(db),
			"redis":   redis.Ping(rdb),
		}),
	}, identity, log)
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout

	return &App{
		cfg:         cfg,
		log:         log,
		mongoClient: mongoClient,
		redis:       rdb,
		ingest:      ingest,
		hub:         hub,
		dispatcher:  dispatcher,
		subscriber:  subscriber,
		echo:        e,
	}, nil
}

// Run serves HTTP and consumes the telemetry channel until ctx is cancelled
// or a component fails, then shuts everything down.
func (a *App) Run(ctx context.Context) error {
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	a.dispatcher.Start(workerCtx)

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := a.subscriber.Run(workerCtx); err != nil {
			errCh <- fmt.Errorf("telemetry subscriber: %w", err)
		}
	}()

	go func() {
		addr := ":" + a.cfg.Port
		a.log.Info().Str("addr", addr).Str("env", a.cfg.Env).Msg("http server listening")
		if err := a.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.log.Info().Msg("shutdown requested")
	case runErr = <-errCh:
		a.log.Error().Err(runErr).Msg("component failed, shutting down")
	}

	a.shutdown(stopWorkers, &wg)
	return runErr
}

// shutdown stops live broadcasts first so no observer gets a half-written
// feed, drains HTTP, then lets the channel workers finish their messages.
func (a *App) shutdown(stopWorkers context.CancelFunc, wg *sync.WaitGroup) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()

	a.ingest.BeginShutdown()
	a.hub.CloseAll()

	if err := a.echo.Shutdown(ctx); err != nil {
		a.log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	wg.Wait()
	a.dispatcher.Wait()

	if err := a.redis.Close(); err != nil {
		a.log.Warn().Err(err).Msg("redis close")
	}
	if err := a.mongoClient.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("mongo disconnect")
	}
	a.log.Info().Msg("shutdown complete")
}
