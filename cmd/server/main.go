package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"field-dispatch-service/internal/adapters/cache"
	"field-dispatch-service/internal/adapters/repositories"
	"field-dispatch-service/internal/adapters/routing"
	"field-dispatch-service/internal/api"
	"field-dispatch-service/internal/config"
	"field-dispatch-service/internal/platform/db"
	"field-dispatch-service/internal/platform/logger"
	"field-dispatch-service/internal/platform/metrics"
	"field-dispatch-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, Google Directions) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	defaults, err := config.LoadAssignmentDefaults(cfg.CriteriaFile)
	if err != nil {
		return err
	}

	m, err := metrics.New(nil)
	if err != nil {
		return err
	}

	seqOpts := []services.SequencerOption{
		services.WithMetrics(m),
		services.WithLogger(log),
		services.WithTravelMode(cfg.RoutingMode, cfg.RoutingAvoid...),
	}

	if cfg.RoutingEnabled() {
		provider, err := routing.NewGoogleDirectionsProvider(cfg.RoutingAPIKey,
			routing.WithBaseURL(cfg.RoutingBaseURL),
			routing.WithRateLimit(cfg.RoutingRatePerSec),
		)
		if err != nil {
			return err
		}
		seqOpts = append(seqOpts, services.WithProvider(provider))
	} else {
		log.Warn("ROUTING_API_KEY not set; routes use the internal heuristic only")
	}

	// The route cache is optional; without Redis every provider call goes out.
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		seqOpts = append(seqOpts, services.WithCache(cache.NewRedisRouteCache(client, cfg.RouteCacheTTL)))
	}

	router := api.NewRouter(api.Deps{
		Targets:   repositories.NewPostgresTargetRepository(pool),
		Agents:    repositories.NewPostgresAgentRepository(pool),
		Sequencer: services.NewRouteSequencer(seqOpts...),
		Defaults:  defaults,
		Metrics:   m,
		Log:       log,
	})

	// Timeouts are tuned for provider-backed route batches (retries plus inter-batch pauses).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "routing", cfg.RoutingEnabled(), "route_cache", cfg.RedisURL != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
