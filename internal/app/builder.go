package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/metric"

	"github.com/ayudahub/snpsap-sync-server/internal/api"
	"github.com/ayudahub/snpsap-sync-server/internal/auth"
	"github.com/ayudahub/snpsap-sync-server/internal/config"
	"github.com/ayudahub/snpsap-sync-server/internal/snpsap"
	"github.com/ayudahub/snpsap-sync-server/internal/store"
	"github.com/ayudahub/snpsap-sync-server/internal/sync"
	"github.com/ayudahub/snpsap-sync-server/internal/telemetry"
	"github.com/ayudahub/snpsap-sync-server/internal/versions"
)

const (
	defaultRequestTimeout = 10 * time.Minute // a sync job can be slow; see write timeout
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 11 * time.Minute // must be > request timeout so middleware answers first
	defaultIdleTimeout    = 60 * time.Second
)

// Option is a function that configures the app builder
type Option func(*appConfig) error

// appConfig builds an App using the builder pattern. It supports dependency
// injection for testing while providing sensible defaults for production.
type appConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	catalogClient snpsap.Client
	catalogStore  store.Store
	meterProvider metric.MeterProvider
	registry      []sync.CatalogDescriptor

	// HTTP server options
	address        string
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	promRegistry *prometheus.Registry
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) Option {
	return func(cfg *appConfig) error {
		if c == nil {
			return fmt.Errorf("config cannot be nil")
		}
		cfg.config = c
		return nil
	}
}

// WithAddress overrides the HTTP listen address
func WithAddress(addr string) Option {
	return func(cfg *appConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}
		cfg.address = addr
		return nil
	}
}

// WithCatalogClient injects a catalog client (testing)
func WithCatalogClient(c snpsap.Client) Option {
	return func(cfg *appConfig) error {
		cfg.catalogClient = c
		return nil
	}
}

// WithStore injects a store (testing)
func WithStore(s store.Store) Option {
	return func(cfg *appConfig) error {
		cfg.catalogStore = s
		return nil
	}
}

// WithMeterProvider injects a meter provider (testing)
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *appConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithCatalogRegistry overrides the catalog registry (testing)
func WithCatalogRegistry(registry []sync.CatalogDescriptor) Option {
	return func(cfg *appConfig) error {
		cfg.registry = registry
		return nil
	}
}

// NewApp wires all components and returns a runnable App
func NewApp(ctx context.Context, opts ...Option) (*App, error) {
	cfg := &appConfig{
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.config == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if cfg.address == "" {
		cfg.address = cfg.config.HTTPAddress
	}
	if cfg.registry == nil {
		cfg.registry = sync.DefaultRegistry()
	}

	// Store
	catalogStore := cfg.catalogStore
	if catalogStore == nil {
		var err error
		catalogStore, err = store.NewPostgresStore(ctx, cfg.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create store: %w", err)
		}
	}

	// Telemetry: a broken exporter must not prevent the service from running
	meterProvider := cfg.meterProvider
	if cfg.promRegistry == nil {
		cfg.promRegistry = prometheus.NewRegistry()
	}
	if meterProvider == nil {
		tcfg := cfg.config.Telemetry
		if tcfg != nil && tcfg.ServiceVersion == "" {
			tcfg.ServiceVersion = versions.GetVersionInfo().Version
		}
		var err error
		meterProvider, err = telemetry.NewMeterProvider(ctx,
			telemetry.WithConfig(tcfg),
			telemetry.WithPrometheusRegisterer(cfg.promRegistry),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create meter provider: %w", err)
		}
	}

	syncMetrics, err := telemetry.NewSyncMetrics(meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}

	// Upstream client
	catalogClient := cfg.catalogClient
	if catalogClient == nil {
		catalogClient, err = snpsap.NewDefaultClient(cfg.config.APIBaseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create SNPSAP client: %w", err)
		}
	}

	// Sync pipeline
	synchronizer := sync.NewSynchronizer(
		catalogClient,
		catalogStore,
		syncMetrics,
		sync.DefaultJobName,
		cfg.config.Portal,
	)
	orchestrator, err := sync.NewOrchestrator(synchronizer, cfg.registry, syncMetrics, sync.DefaultJobName)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}

	// HTTP server
	router := api.NewServer(orchestrator,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.Recoverer,
			middleware.Timeout(cfg.requestTimeout),
			api.LoggingMiddleware,
		),
		api.WithAuthMiddleware(auth.NewSecretMiddleware(cfg.config.CronSecret)),
		api.WithPrometheusGatherer(cfg.promRegistry),
		api.WithPinger(catalogStore),
	)

	httpServer := &http.Server{
		Addr:         cfg.address,
		Handler:      router,
		ReadTimeout:  cfg.readTimeout,
		WriteTimeout: cfg.writeTimeout,
		IdleTimeout:  cfg.idleTimeout,
	}

	appCtx, cancel := context.WithCancel(ctx)

	return &App{
		config: cfg.config,
		components: &Components{
			Orchestrator:  orchestrator,
			Store:         catalogStore,
			MeterProvider: meterProvider,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancel,
	}, nil
}
