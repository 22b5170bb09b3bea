package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"itinerary/internal/api"
	"itinerary/internal/application/factories/infrastructure"
	"itinerary/internal/config"
	"itinerary/internal/domain/outbox"
	"itinerary/internal/infrastructure/memory"
	"itinerary/internal/usecase"
	"itinerary/internal/worker"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize structured JSON logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	infraFactory := infrastructure.NewFactory(cfg, logger)
	defer infraFactory.Close()

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	publisher, err := infraFactory.Publisher()
	if err != nil {
		logger.Error("failed to init event publisher", "error", err)
		os.Exit(1)
	}

	// Repositories
	itineraryRepo := memory.NewItineraryRepository()
	var outboxRepo outbox.Repository
	if publisher != nil {
		outboxRepo = memory.NewOutboxRepository()
	}

	// UseCases
	sortUC := usecase.NewSortItinerary(itineraryRepo, outboxRepo, logger)
	getUC := usecase.NewGetItinerary(itineraryRepo)
	listUC := usecase.NewListItineraries(itineraryRepo)
	deleteUC := usecase.NewDeleteItinerary(itineraryRepo)

	pollerDone := make(chan struct{})
	if publisher != nil {
		poller := worker.NewOutboxPoller(outboxRepo, publisher, worker.PollerConfig{
			Interval:  cfg.Events.PollInterval,
			BatchSize: cfg.Events.BatchSize,
		}, logger)
		go func() {
			defer close(pollerDone)
			if err := poller.Run(ctx); err != nil {
				logger.Error("outbox poller stopped with error", "error", err)
			}
		}()
	} else {
		close(pollerDone)
	}

	// REST API Handler
	handlers := api.NewHandlers(sortUC, getUC, listUC, deleteUC, logger)
	apiHandler := api.NewRouter(handlers, api.RouterConfig{
		RedisClient:    redisClient,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           apiHandler,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
	}

	go func() {
		logger.Info("server starting", "app", cfg.App.Name, "version", cfg.App.Version, "port", cfg.HTTP.Port, "events", cfg.Events.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen failed", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	<-pollerDone

	logger.Info("server exiting")
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
