package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/ayudahub/snpsap-sync-server/internal/snpsap"
	"github.com/ayudahub/snpsap-sync-server/internal/store"
	"github.com/ayudahub/snpsap-sync-server/internal/telemetry"
)

// Synchronizer syncs single catalogs: it fetches one catalog's full item
// list and upserts each item with per-item failure isolation. SyncCatalog
// never fails as a whole; every outcome is a TaskResult.
type Synchronizer struct {
	client  snpsap.Client
	store   store.Store
	metrics *telemetry.SyncMetrics
	jobName string
	portal  string
}

// NewSynchronizer creates a new Synchronizer. metrics may be nil.
func NewSynchronizer(
	client snpsap.Client,
	st store.Store,
	metrics *telemetry.SyncMetrics,
	jobName, portal string,
) *Synchronizer {
	return &Synchronizer{
		client:  client,
		store:   st,
		metrics: metrics,
		jobName: jobName,
		portal:  portal,
	}
}

// SyncCatalog fetches and upserts one catalog. All failures are caught,
// counted and logged; the returned result always reflects what happened.
//
// Items are upserted sequentially in upstream order: the lists are small,
// and ordered item logs are worth more than parallel upserts here.
func (s *Synchronizer) SyncCatalog(ctx context.Context, desc CatalogDescriptor, runID string) TaskResult {
	start := time.Now()
	logger := slog.With(
		"job", s.jobName,
		"run_id", runID,
		"catalog", desc.Name,
	)

	logger.Info("Catalog sync started", "endpoint", desc.Endpoint)
	s.metrics.RecordTaskStarted(ctx, s.jobName, desc.Name)

	items, err := s.client.FetchCatalog(ctx, desc.Endpoint, s.portal)
	if err != nil {
		// The failed fetch is the task's single counted error; no upserts run
		logger.Error("Catalog fetch failed",
			"endpoint", desc.Endpoint,
			"error", err,
		)
		s.metrics.RecordFatalError(ctx, s.jobName, "fetch")
		s.metrics.RecordItemError(ctx, s.jobName, desc.Name)

		// The task ends here; the completion counters are reserved for
		// tasks whose fetch succeeded
		duration := time.Since(start)
		return TaskResult{
			CatalogName: desc.Name,
			Processed:   0,
			Errors:      1,
			Duration:    duration,
		}
	}

	var processed, errored uint64
	for _, item := range items {
		itemStart := time.Now()

		if err := s.store.Upsert(ctx, desc.Kind, item.ID.String(), item.Description); err != nil {
			// One bad record never aborts the catalog
			errored++
			s.metrics.RecordItemError(ctx, s.jobName, desc.Name)
			logger.Error("Item upsert failed",
				"item_id", item.ID.String(),
				"error", err,
			)
			continue
		}

		processed++
		itemDuration := time.Since(itemStart)
		s.metrics.RecordItemProcessed(ctx, s.jobName, desc.Name, itemDuration)
		logger.Debug("Item upserted",
			"item_id", item.ID.String(),
			"duration_ms", itemDuration.Milliseconds(),
		)
	}

	duration := time.Since(start)
	s.metrics.RecordTaskCompleted(ctx, s.jobName, desc.Name, duration)
	logger.Info("Catalog sync finished",
		"processed", processed,
		"errors", errored,
		"duration_ms", duration.Milliseconds(),
	)

	return TaskResult{
		CatalogName: desc.Name,
		Processed:   processed,
		Errors:      errored,
		Duration:    duration,
	}
}
