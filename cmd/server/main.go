// Command server runs the courier tracking service.
//
// @title                       Courier Tracking API
// @version                     1.0
// @description                 Courier GPS ingestion, delivery lifecycle, live feeds and public tracking.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/courier-tracking/internal/app"
	"github.com/99minutos/courier-tracking/internal/infrastructure/config"
	"github.com/99minutos/courier-tracking/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "courier-tracking",
	})

	mainLog := logger.For("main")

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		mainLog.Fatal().Err(err).Msg("startup failed")
	}

	if err := a.Run(ctx); err != nil {
		mainLog.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
}
