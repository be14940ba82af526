package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"courtfinder/config"
	_ "courtfinder/docs"
	"courtfinder/internal/adapters/atc"
	"courtfinder/internal/adapters/auth"
	"courtfinder/internal/adapters/bus"
	"courtfinder/internal/adapters/cache"
	httpdelivery "courtfinder/internal/delivery/http"
	"courtfinder/internal/delivery/http/controllers"
	"courtfinder/internal/delivery/http/middleware"
	"courtfinder/internal/domain"
	"courtfinder/internal/obs"
	"courtfinder/internal/services"
	"courtfinder/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// @title Court Finder API
// @version 1.0
// @description Aggregates sports court availability from the club/court/slot service and keeps a cache of it fresh.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("courtfinder stopped", "err", err)
		os.Exit(1)
	}
}

// run wires the service and serves until ctx is done or the listener fails.
// Everything it opens is released before it returns.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if cfg.OTelEnabled {
		shutdownTracer, err := obs.InitTracer(ctx, obs.TracerConfig{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
			Endpoint:    cfg.OTelEndpoint,
		})
		if err != nil {
			return fmt.Errorf("tracer init: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracer(sctx); err != nil {
				logger.Warn("tracer shutdown failed", "err", err)
			}
		}()
	}

	upstream, err := atc.NewClient(atc.Options{
		BaseURL:    cfg.ATCBaseURL,
		Timeout:    cfg.UpstreamTimeout,
		MaxRetries: cfg.UpstreamMaxRetries,
		RetryUnit:  cfg.UpstreamRetryUnit,
		RateLimit:  cfg.UpstreamRateLimit,
		Logger:     logger,
		Observer:   atc.NewLogObserver(logger),
	})
	if err != nil {
		return fmt.Errorf("upstream client init: %w", err)
	}

	publisher, err := bus.NewPublisher(bus.Config{
		Provider:     cfg.EventBusProvider,
		RabbitURL:    cfg.RabbitURL,
		Exchange:     cfg.EventExchange,
		RedisURL:     cfg.RedisURL,
		RedisChannel: cfg.RedisChannel,
		DatabaseURL:  cfg.DBUrl,
	}, logger)
	if err != nil {
		return fmt.Errorf("event publisher init (provider=%s): %w", cfg.EventBusProvider, err)
	}
	defer publisher.Close()

	availability := cache.NewMemory()
	aggregator := services.NewAggregator(upstream, cfg.AggregatorMaxConcurrency, logger)
	searchService := services.NewSearchService(availability, aggregator, logger)
	invalidator := services.NewInvalidator(availability, publisher, logger)

	if cfg.EventConsumer == "rabbitmq" {
		consumer := worker.NewConsumer(worker.Config{
			RabbitURL:   cfg.RabbitURL,
			Exchange:    cfg.ExternalEventsExchange,
			Queue:       cfg.ExternalEventsQueue,
			ServiceName: cfg.ServiceName,
		}, invalidator, logger)
		if err := consumer.Connect(); err != nil {
			return fmt.Errorf("event consumer connect: %w", err)
		}
		defer consumer.Close()
		go func() {
			if err := consumer.Run(ctx); err != nil {
				logger.Error("event consumer stopped", "err", err)
			}
		}()
		logger.Info("event consumer started", "queue", cfg.ExternalEventsQueue, "exchange", cfg.ExternalEventsExchange)
	}

	var verifier domain.TokenVerifier
	if cfg.OpsJWTSecret != "" {
		verifier = auth.NewJWT(cfg.OpsJWTSecret)
	} else {
		logger.Warn("OPS_JWT_SECRET not set, cache endpoints are unauthenticated")
	}

	router := httpdelivery.NewRouter(
		controllers.NewSearchController(logger, searchService),
		controllers.NewEventsController(logger, invalidator),
		controllers.NewCacheController(logger, availability),
		middleware.RequireRole(verifier, domain.RoleOps, logger),
	)
	var handler http.Handler = router
	handler = middleware.LoggingMiddleware(logger, handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "upstream", cfg.ATCBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
