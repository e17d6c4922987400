package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the catalog sync metrics meter
const SyncMetricsMeterName = "github.com/ayudahub/snpsap-sync-server/sync"

// SyncMetrics holds the OpenTelemetry instruments for catalog sync metrics.
// A nil *SyncMetrics is valid and records nothing, so callers never need to
// guard their instrumentation.
type SyncMetrics struct {
	tasksStarted   metric.Int64Counter
	tasksCompleted metric.Int64Counter
	itemsProcessed metric.Int64Counter
	itemErrors     metric.Int64Counter
	fatalErrors    metric.Int64Counter
	itemDuration   metric.Float64Histogram
	taskDuration   metric.Float64Histogram
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	tasksStarted, err := meter.Int64Counter(
		"snpsap_sync_tasks_started_total",
		metric.WithDescription("Number of catalog sync tasks started"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	tasksCompleted, err := meter.Int64Counter(
		"snpsap_sync_tasks_completed_total",
		metric.WithDescription("Number of catalog sync tasks completed"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	itemsProcessed, err := meter.Int64Counter(
		"snpsap_sync_items_processed_total",
		metric.WithDescription("Number of catalog items upserted successfully"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	itemErrors, err := meter.Int64Counter(
		"snpsap_sync_item_errors_total",
		metric.WithDescription("Number of catalog items that failed to upsert, plus failed fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	fatalErrors, err := meter.Int64Counter(
		"snpsap_sync_fatal_errors_total",
		metric.WithDescription("Number of fatal errors (failed fetches and orchestration failures)"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	itemDuration, err := meter.Float64Histogram(
		"snpsap_sync_item_duration_seconds",
		metric.WithDescription("Duration of individual item upserts in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5),
	)
	if err != nil {
		return nil, err
	}

	taskDuration, err := meter.Float64Histogram(
		"snpsap_sync_task_duration_seconds",
		metric.WithDescription("Duration of catalog sync tasks in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		tasksStarted:   tasksStarted,
		tasksCompleted: tasksCompleted,
		itemsProcessed: itemsProcessed,
		itemErrors:     itemErrors,
		fatalErrors:    fatalErrors,
		itemDuration:   itemDuration,
		taskDuration:   taskDuration,
	}, nil
}

// catalogAttrs builds the attribute set shared by all sync instruments
func catalogAttrs(job, catalog string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("job", job),
		attribute.String("catalog", catalog),
	}
}

// RecordTaskStarted records the start of a catalog sync task
func (m *SyncMetrics) RecordTaskStarted(ctx context.Context, job, catalog string) {
	if m == nil || m.tasksStarted == nil {
		return
	}
	m.tasksStarted.Add(ctx, 1, metric.WithAttributes(catalogAttrs(job, catalog)...))
}

// RecordTaskCompleted records the completion of a catalog sync task with its duration
func (m *SyncMetrics) RecordTaskCompleted(ctx context.Context, job, catalog string, duration time.Duration) {
	if m == nil || m.tasksCompleted == nil {
		return
	}
	attrs := metric.WithAttributes(catalogAttrs(job, catalog)...)
	m.tasksCompleted.Add(ctx, 1, attrs)
	m.taskDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordItemProcessed records a successful item upsert with its duration
func (m *SyncMetrics) RecordItemProcessed(ctx context.Context, job, catalog string, duration time.Duration) {
	if m == nil || m.itemsProcessed == nil {
		return
	}
	attrs := metric.WithAttributes(catalogAttrs(job, catalog)...)
	m.itemsProcessed.Add(ctx, 1, attrs)
	m.itemDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordItemError records a failed item upsert
func (m *SyncMetrics) RecordItemError(ctx context.Context, job, catalog string) {
	if m == nil || m.itemErrors == nil {
		return
	}
	m.itemErrors.Add(ctx, 1, metric.WithAttributes(catalogAttrs(job, catalog)...))
}

// RecordFatalError records a fatal error (failed fetch or orchestration failure)
func (m *SyncMetrics) RecordFatalError(ctx context.Context, job, scope string) {
	if m == nil || m.fatalErrors == nil {
		return
	}
	m.fatalErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("job", job),
		attribute.String("scope", scope),
	))
}
