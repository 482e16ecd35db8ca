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

	"github.com/safequest/engine/internal/attendance"
	"github.com/safequest/engine/internal/bootstrap"
	"github.com/safequest/engine/internal/calibration"
	"github.com/safequest/engine/internal/concurrency"
	"github.com/safequest/engine/internal/config"
	"github.com/safequest/engine/internal/handler"
	"github.com/safequest/engine/internal/inventory"
	"github.com/safequest/engine/internal/progression"
	"github.com/safequest/engine/internal/quest"
	"github.com/safequest/engine/internal/repository"
	"github.com/safequest/engine/internal/scheduler"
	"github.com/safequest/engine/internal/server"
	"github.com/safequest/engine/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	slog.Info("Starting SafeQuest engine",
		"environment", cfg.Environment,
		"version", cfg.Version,
		"storage_backend", cfg.StorageBackend)

	ctx := context.Background()

	store, err := bootstrap.InitializeStore(ctx, cfg)
	if err != nil {
		return err
	}

	cat, err := bootstrap.LoadCatalog(cfg)
	if err != nil {
		store.Close()
		return err
	}

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		store.Close()
		return err
	}

	// Every per-user operation is one atomic read-modify-write under
	// the user's lock.
	repo := repository.NewKV(store.Store)
	locks := concurrency.NewLockManager()

	progressionService := progression.NewService(repo, locks, publisher)
	calibrationService := calibration.NewService(repo, cat, locks, publisher, nil)
	inventoryService := inventory.NewService(repo, cat, locks, publisher)
	questService := quest.NewService(repo, cat, progressionService, locks, publisher, nil)
	attendanceService := attendance.NewService(repo, cat, progressionService, locks, publisher, nil)

	// Background reset sweep so boundaries land for idle users too.
	pool := worker.NewPool(bootstrap.WorkerPoolSize, bootstrap.WorkerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.ResetCheckInterval, worker.NewResetSweepJob(repo, questService))

	var pinger handler.Pinger
	if store.Pool != nil {
		pinger = store.Pool
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, pinger, server.Services{
		Catalog:     cat,
		Calibration: calibrationService,
		Inventory:   inventoryService,
		Progression: progressionService,
		Quest:       questService,
		Attendance:  attendanceService,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		store.Close()
		return err
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: pool,
		Publisher:  publisher,
		Store:      store,
	})

	return nil
}
