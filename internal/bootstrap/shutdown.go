package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/MarketCrafter_Go/internal/snapshot"
)

type stoppable interface {
	Stop(ctx context.Context) error
}

type shutdownableService interface {
	Shutdown(ctx context.Context) error
}

type closer interface {
	Close()
}

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server        stoppable
	RefreshWorker shutdownableService
	Dispatcher    interface{ Stop() }
	Engine        shutdownableService
	Planner       shutdownableService
	Notifier      closer
	Hub           interface{ Stop() }
	Store         snapshot.Store
}

// GracefulShutdown stops the components in dependency order:
//  1. HTTP server (stop accepting requests; streaming clients are released)
//  2. refresh worker (no new refresh cycles)
//  3. fetch dispatcher (drain the provider pools)
//  4. engine (process what is queued, then exit)
//  5. planner (save job levels, flush caches)
//  6. notifier (wait for in-flight alerts)
//  7. event hub
//  8. snapshot store
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	shutdownService(ctx, ComponentRefreshWorker, c.RefreshWorker)

	if c.Dispatcher != nil {
		c.Dispatcher.Stop()
	}

	shutdownService(ctx, ComponentEngine, c.Engine)
	shutdownService(ctx, ComponentPlanner, c.Planner)

	if c.Notifier != nil {
		c.Notifier.Close()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			slog.Error(LogMsgStoreCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}

func shutdownService(ctx context.Context, name string, service shutdownableService) {
	if service == nil {
		return
	}
	if err := service.Shutdown(ctx); err != nil {
		slog.Error(name+LogMsgComponentShutdownFailed, "error", err)
	}
}
