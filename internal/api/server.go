// Package api provides the HTTP server for the catalog sync service.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayudahub/snpsap-sync-server/internal/api/batch"
	"github.com/ayudahub/snpsap-sync-server/internal/sync"
	"github.com/ayudahub/snpsap-sync-server/internal/versions"
)

// Pinger checks that a backing dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	authMiddleware func(http.Handler) http.Handler
	gatherer       prometheus.Gatherer
	pinger         Pinger
}

// WithMiddlewares adds middleware applied to every route
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithAuthMiddleware sets the middleware guarding the batch trigger routes
func WithAuthMiddleware(mw func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.authMiddleware = mw
	}
}

// WithPrometheusGatherer exposes the given registry on /metrics
func WithPrometheusGatherer(g prometheus.Gatherer) ServerOption {
	return func(cfg *serverConfig) {
		cfg.gatherer = g
	}
}

// WithPinger sets the dependency checked by the readiness endpoint
func WithPinger(p Pinger) ServerOption {
	return func(cfg *serverConfig) {
		cfg.pinger = p
	}
}

// NewServer creates and configures the HTTP router with the given job runner
// and options
func NewServer(runner sync.JobRunner, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	// System routes are public
	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(cfg.pinger))
	r.Get("/version", versionHandler)

	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	// Batch trigger routes require the shared secret
	r.Route("/batch", func(r chi.Router) {
		if cfg.authMiddleware != nil {
			r.Use(cfg.authMiddleware)
		}
		r.Mount("/", batch.Router(runner))
	})

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessHandler handles readiness check requests
func readinessHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if pinger != nil {
			if err := pinger.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				resp := map[string]string{"error": "store not ready: " + err.Error()}
				if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
					slog.Error("Failed to encode readiness error response", "error", encodeErr)
				}
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}
}

// versionHandler handles version information requests
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	info := versions.GetVersionInfo()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(info); err != nil {
		slog.Error("Failed to encode version info", "error", err)
	}
}
