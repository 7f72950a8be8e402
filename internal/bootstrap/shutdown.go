package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/LevelUp_Go/internal/database"
	"github.com/osse101/LevelUp_Go/internal/server"
	"github.com/osse101/LevelUp_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// DBPool is nil for in-memory storage.
type ShutdownComponents struct {
	Server        *server.Server
	ActivityPrune *worker.ActivityPruneWorker
	DBPool        database.Pool
}

// GracefulShutdown stops the HTTP server and the pruning job before closing
// the pool so nothing runs against a closed pool. Errors are logged and do
// not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ActivityPrune != nil {
		slog.Info(LogMsgStoppingWorkers)
		if err := components.ActivityPrune.Shutdown(ctx); err != nil {
			slog.Error(LogMsgWorkerShutdownFailed, "error", err)
		}
	}

	if components.DBPool != nil {
		slog.Info(LogMsgClosingDatabase)
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
