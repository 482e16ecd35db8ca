package bootstrap

import (
	"context"
	"log/slog"

	"github.com/safequest/engine/internal/event"
	"github.com/safequest/engine/internal/scheduler"
	"github.com/safequest/engine/internal/server"
	"github.com/safequest/engine/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server     *server.Server
	Scheduler  *scheduler.Scheduler
	WorkerPool *worker.Pool
	Publisher  *event.ResilientPublisher
	Store      *StateStore
}

// GracefulShutdown stops components in dependency order: the HTTP
// server first so no new work arrives, then the scheduler and pool so
// in-flight sweeps finish, then the publisher so pending events flush,
// and the store last.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.Publisher != nil {
		slog.Info(LogMsgShuttingDownPublisher)
		if err := components.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgPublisherShutdownFailed, "error", err)
		}
	}

	if components.Store != nil {
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
