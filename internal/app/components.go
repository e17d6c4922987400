package app

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/ayudahub/snpsap-sync-server/internal/store"
	"github.com/ayudahub/snpsap-sync-server/internal/sync"
)

// Components groups the wired application components
type Components struct {
	// Orchestrator runs the catalog sync job
	Orchestrator sync.JobRunner

	// Store is the catalog item store
	Store store.Store

	// MeterProvider is the telemetry meter provider (may be a no-op)
	MeterProvider metric.MeterProvider
}
