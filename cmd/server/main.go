package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/flockpulse/flockpulse/internal/api"
	"github.com/flockpulse/flockpulse/internal/auth"
	"github.com/flockpulse/flockpulse/internal/config"
	"github.com/flockpulse/flockpulse/internal/database"
	"github.com/flockpulse/flockpulse/internal/logging"
	"github.com/flockpulse/flockpulse/internal/metrics"
	"github.com/flockpulse/flockpulse/internal/scheduler"
	"github.com/flockpulse/flockpulse/internal/server"
	"github.com/flockpulse/flockpulse/internal/social"
	"github.com/flockpulse/flockpulse/internal/tracker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting flockpulse")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger.Info("connecting to database")
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database connected")

	// Run pending migrations (non-fatal to allow app to start even if migrations fail)
	if err := database.RunMigrations(db, "./migrations", logger); err != nil {
		logger.Warn("failed to run migrations, continuing anyway", "error", err)
	}

	accountRepo := database.NewPostgresAccountRepository(db)

	httpCollector, err := metrics.NewHTTPCollector()
	if err != nil {
		logger.Error("failed to init http metrics", "error", err)
		os.Exit(1)
	}
	trackerCollector, err := metrics.NewTrackerCollector(httpCollector.Registry())
	if err != nil {
		logger.Error("failed to init tracker metrics", "error", err)
		os.Exit(1)
	}

	clients := social.NewClients(cfg.Platforms, logger)
	trk := tracker.NewTracker(accountRepo, clients, trackerCollector, logger)

	authConfig := auth.LoadConfigFromEnv()

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.HealthCheck(r.Context(), db); err != nil {
			logger.Error("health check failed", "error", err)
			http.Error(w, `{"status":"unhealthy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", httpCollector.Handler())

	api.SetupRoutes(mux, accountRepo, trk, clients, authConfig, logger)

	srv := server.New(cfg.Server, logger, httpCollector.InstrumentHandler(mux))

	var followerScheduler *scheduler.FollowerScheduler
	if cfg.Scheduler.Enabled {
		followerScheduler = scheduler.NewFollowerScheduler(trk, cfg.Scheduler.UpdateInterval, logger)
		go followerScheduler.Start(ctx)
	} else {
		logger.Info("follower scheduler disabled")
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	}

	if followerScheduler != nil {
		followerScheduler.Stop()
	}
	cancel()

	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", "error", err)
		os.Exit(1)
	}

	logger.Info("flockpulse stopped")
}
