// Package server owns the process lifecycle of `brewandco serve`: boot the
// store and integrations, serve HTTP (and optionally gRPC), then drain
// everything on shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/brewandco/app/jobs"
	"github.com/shashiranjanraj/brewandco/app/listeners"
	"github.com/shashiranjanraj/brewandco/app/tasks"
	"github.com/shashiranjanraj/brewandco/config"
	"github.com/shashiranjanraj/brewandco/internal/kernel"
	"github.com/shashiranjanraj/brewandco/pkg/broker"
	"github.com/shashiranjanraj/brewandco/pkg/cache"
	"github.com/shashiranjanraj/brewandco/pkg/database"
	"github.com/shashiranjanraj/brewandco/pkg/event"
	grpcserver "github.com/shashiranjanraj/brewandco/pkg/grpc"
	"github.com/shashiranjanraj/brewandco/pkg/logger"
	"github.com/shashiranjanraj/brewandco/pkg/queue"
	"github.com/shashiranjanraj/brewandco/pkg/schedule"
	"github.com/shashiranjanraj/brewandco/pkg/storage"
	"github.com/shashiranjanraj/brewandco/pkg/workerpool"
	"github.com/shashiranjanraj/brewandco/pkg/ws"
	"google.golang.org/grpc"
	"gorm.io/gorm"
)

const (
	shutdownTimeout = 15 * time.Second
	listenerWorkers = 16
	queueWorkers    = 4
)

// Boot loads configuration, attaches optional log sinks and connects the
// store. Every CLI command that touches the database starts here.
func Boot() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.AttachMongo(config.LogMongoURI()); err != nil {
		logger.Warn("log sink disabled", "sink", "mongodb", "error", err)
	}
	if err := database.Connect(); err != nil {
		return err
	}
	return nil
}

// Integrations connects Redis, storage disks and the queue backend, and
// registers the job types. A missing Redis is logged, not fatal.
func Integrations(ctx context.Context, db *gorm.DB) {
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, catalog cache and idempotency disabled", "error", err)
	}
	storage.Connect(ctx)

	queue.UseDB(db)
	if config.QueueDriver() == "redis" {
		if cache.Available() {
			queue.SetDriver(queue.NewRedisDriver(ctx, cache.RDB))
		} else {
			logger.Warn("queue: QUEUE_DRIVER=redis without redis, using memory driver")
		}
	}
	jobs.Register(db)
}

// Start runs the server until SIGINT or SIGTERM.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return Run(ctx)
}

// Run boots everything and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	if err := Boot(); err != nil {
		return err
	}
	defer logger.Close()

	db := database.DB
	Integrations(ctx, db)
	defer cache.Close() //nolint:errcheck

	pool := workerpool.New(listenerWorkers)
	event.UsePool(pool)

	hub := ws.NewHub(config.AllowedOrigins())
	go hub.Run(ctx)

	publisher := broker.New(config.KafkaBrokers(), config.KafkaOrderTopic())
	listeners.New(hub, publisher).Register()

	// Workers outlive ctx so jobs dispatched by draining listeners still run.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workers := queue.StartWorkers(workerCtx, queueWorkers)

	scheduler := schedule.New()
	tasks.Register(scheduler, db)
	scheduler.Start(ctx)

	check := func(ctx context.Context) error { return database.Ping(ctx, db) }
	var grpcSrv *grpc.Server
	if port := config.GRPCPort(); port != "" {
		srv, err := grpcserver.Start(port, check)
		if err != nil {
			return err
		}
		grpcSrv = srv
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           kernel.NewHTTPKernel(db, hub).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", httpSrv.Addr, "env", config.AppEnv(), "driver", config.DatabaseDriver())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http: %w", err)
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http: shutdown", "error", err)
	}
	grpcserver.Stop(grpcSrv)

	// Listeners may still dispatch jobs, so the pool drains before workers.
	pool.Shutdown()
	event.UsePool(nil)
	stopWorkers()
	workers.Wait()
	scheduler.Wait()

	if err := publisher.Close(); err != nil {
		logger.Warn("broker: close", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server stopped")
	return runErr
}
