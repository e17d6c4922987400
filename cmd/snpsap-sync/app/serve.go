package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ayudahub/snpsap-sync-server/internal/app"
	"github.com/ayudahub/snpsap-sync-server/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog sync server",
	Long: `Start the catalog sync server.

The server exposes a batch endpoint that an external scheduler calls to
trigger a full synchronization of the basic SNPSAP catalogs into Postgres.
Batch endpoints are protected by a shared secret (SNPSAP_CRON_SECRET).

All configuration is read from SNPSAP_* environment variables.`,
	RunE: runServe,
}

const defaultGracefulTimeout = 30 * time.Second

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides SNPSAP_HTTP_ADDRESS)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Error binding address flag", "error", err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	opts := []app.Option{app.WithConfig(cfg)}
	if address := viper.GetString("address"); address != "" {
		opts = append(opts, app.WithAddress(address))
	}

	application, err := app.NewApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("Server failed", "error", err)
			return err
		}
	case sig := <-quit:
		slog.Info("Shutting down server...", "signal", sig.String())
	}

	if err := application.Stop(defaultGracefulTimeout); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}

	slog.Info("Server shutdown complete")
	return nil
}
