package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start launches the HTTP server and the cron scheduler. The returned channel
// is closed once a termination signal arrives.
func (a *App) Start() <-chan struct{} {
	terminate := make(chan struct{})

	a.cron.Start()
	slog.Info("scheduler started", "jobs", a.cron.Jobs())

	go func() {
		slog.Info("http server listening", "address", a.httpServer.Addr)

		if err := a.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to listen and serve http server", "error", err)
			os.Exit(1)
		}
	}()

	go func() {
		ctx, stop := signal.NotifyContext(a.ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
		defer stop()

		<-ctx.Done()
		close(terminate)

		slog.Info("termination signal received")
	}()

	return terminate
}

// Stop drains in-flight requests, then background mail jobs, then releases
// resources in closer order.
func (a *App) Stop(ctx context.Context) {
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
	}

	if a.cancel != nil {
		a.cancel()
	}

	slog.InfoContext(ctx, "waiting for background jobs to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from background jobs", "error", err)
	}
	if dropped := a.goroutine.Dropped(); dropped > 0 {
		slog.WarnContext(ctx, "background jobs dropped while saturated", "count", dropped)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}
