package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/predictsports-engine/internal/api"
	"github.com/yourusername/predictsports-engine/internal/cache"
	"github.com/yourusername/predictsports-engine/internal/database"
	"github.com/yourusername/predictsports-engine/internal/ensemble"
	"github.com/yourusername/predictsports-engine/internal/health"
	"github.com/yourusername/predictsports-engine/internal/metrics"
	"github.com/yourusername/predictsports-engine/internal/repository"
	"github.com/yourusername/predictsports-engine/internal/scheduler"
	"github.com/yourusername/predictsports-engine/internal/service"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the prediction HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment":   cfg.App.Environment,
		"version":       Version,
		"model_version": cfg.Engine.ModelVersion,
		"cache_backend": cfg.Cache.Backend,
	}).Info("Prediction engine starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	store, closeStore, err := newCacheStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	checks := map[string]health.Pinger{"cache": store}
	opts := service.Options{
		Cache:        store,
		Logger:       appLog,
		ModelVersion: cfg.Engine.ModelVersion,
		TopN:         cfg.Engine.DefaultTopN,
	}

	sched := scheduler.NewScheduler(appLog)
	if mem, ok := store.(*cache.MemoryStore); ok {
		if err := sched.ScheduleCachePurge(cfg.Cache.PurgeSchedule, mem); err != nil {
			return err
		}
	} else if err := sched.ScheduleDependencyCheck(cfg.Cache.PurgeSchedule, "redis", store); err != nil {
		return err
	}

	if cfg.Database.Enabled {
		db, err := database.NewDB(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		opts.Repository = repository.NewPostgresPredictionRepository(db.GetPool())
		checks["database"] = db
		if err := sched.ScheduleDependencyCheck(cfg.Cache.PurgeSchedule, "database", db); err != nil {
			return err
		}
		appLog.Info("Database connection established")
	}

	svc := service.NewPredictionService(ensemble.NewEngine(), opts)
	checker := health.NewChecker(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		Checks:      checks,
	})

	server := api.NewServer(api.Config{
		Addr:              cfg.ListenAddress(),
		ServiceName:       cfg.App.Name,
		Version:           Version,
		ReadTimeout:       cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       60 * time.Second,
		RequestTimeout:    cfg.WriteTimeout(),
		CORSOrigin:        cfg.Server.CORSOrigin,
		RequestsPerSecond: cfg.Server.RateLimit.RequestsPerSecond,
		Burst:             cfg.Server.RateLimit.Burst,
		MetricsEnabled:    cfg.Metrics.Enabled,
		MetricsPath:       cfg.Metrics.Path,
	}, svc, checker, appLog)

	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Warn("Scheduler did not stop cleanly")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	checker.SetReady(true)

	select {
	case <-ctx.Done():
		appLog.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	appLog.Info("Prediction engine stopped")
	return nil
}

// newCacheStore builds the configured cache backend and a matching close func
func newCacheStore(ctx context.Context) (cache.Store, func(), error) {
	switch cfg.Cache.Backend {
	case cache.BackendRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		store := cache.NewRedisStore(client, cfg.CacheTTL(), cfg.App.Name+":")
		return store, func() {
			if err := store.Close(); err != nil {
				appLog.WithError(err).Warn("Failed to close redis client")
			}
		}, nil
	default:
		store := cache.NewMemoryStore(cfg.CacheTTL(), cfg.Cache.MaxSize)
		return store, func() { store.Clear() }, nil
	}
}
