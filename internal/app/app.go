// Package app provides application lifecycle management for the sync server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ayudahub/snpsap-sync-server/internal/config"
)

// App encapsulates all components needed to run the sync server.
// It provides lifecycle management and graceful shutdown.
type App struct {
	config     *config.Config
	components *Components
	httpServer *http.Server

	ctx        context.Context
	cancelFunc context.CancelFunc
}

// Start starts the HTTP server. This method blocks until the server stops
// or encounters an error.
func (app *App) Start() error {
	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout. It shuts
// down the HTTP server, flushes telemetry, and closes the store.
func (app *App) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var shutdownErr error
	if err := app.httpServer.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("server forced to shutdown: %w", err)
	}

	// Flush pending metrics before closing the store they report on
	if sdk, ok := app.components.MeterProvider.(*sdkmetric.MeterProvider); ok {
		if err := sdk.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down meter provider", "error", err)
		}
	}

	if app.components.Store != nil {
		app.components.Store.Close()
	}

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	if shutdownErr != nil {
		return shutdownErr
	}

	slog.Info("Server shutdown complete")
	return nil
}

// GetConfig returns the application configuration
func (app *App) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *App) GetHTTPServer() *http.Server {
	return app.httpServer
}
