// Package server assembles the HTTP surface and runs it until shutdown.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skysurvey-io/sia-obscore/internal/config"
	"github.com/skysurvey-io/sia-obscore/internal/health"
	"github.com/skysurvey-io/sia-obscore/internal/metrics"
	"github.com/skysurvey-io/sia-obscore/internal/middleware"
	"github.com/skysurvey-io/sia-obscore/internal/service"
)

// Run serves the query endpoint plus probes and metrics, shutting down
// gracefully when ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, h *service.Handler, deps map[string]health.Pinger, version string) error {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.UppercaseParams())

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(deps))
	r.Get("/metrics", metrics.Handler(version).ServeHTTP)
	r.Get("/sia", h.Query())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
