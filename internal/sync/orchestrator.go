package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ayudahub/snpsap-sync-server/internal/telemetry"
)

// DefaultJobName is the name of the standard basic-catalogs sync job
const DefaultJobName = "sync-catalogos-basicos"

// JobRunner runs one complete sync job and reports its summary
type JobRunner interface {
	// RunJob launches all configured catalog sync tasks concurrently, waits
	// for every one of them, and returns the aggregated summary. The error
	// is non-nil only for orchestration failures; per-item and per-catalog
	// errors are reflected in the summary counts.
	RunJob(ctx context.Context) (*JobSummary, error)
}

// Orchestrator is the default JobRunner implementation
type Orchestrator struct {
	synchronizer *Synchronizer
	registry     []CatalogDescriptor
	metrics      *telemetry.SyncMetrics
	jobName      string
}

// NewOrchestrator creates a new Orchestrator over the given catalog registry.
// metrics may be nil.
func NewOrchestrator(
	synchronizer *Synchronizer,
	registry []CatalogDescriptor,
	metrics *telemetry.SyncMetrics,
	jobName string,
) (*Orchestrator, error) {
	if synchronizer == nil {
		return nil, fmt.Errorf("synchronizer is required")
	}
	if jobName == "" {
		jobName = DefaultJobName
	}

	return &Orchestrator{
		synchronizer: synchronizer,
		registry:     registry,
		metrics:      metrics,
		jobName:      jobName,
	}, nil
}

// RunJob fans out one sync task per catalog and joins them all. Tasks never
// short-circuit each other: a slow or failing catalog does not affect its
// siblings, and the summary always covers every task.
func (o *Orchestrator) RunJob(ctx context.Context) (*JobSummary, error) {
	start := time.Now()

	runUUID, err := uuid.NewRandom()
	if err != nil {
		slog.Error("Job failed before start: could not generate run id",
			"job", o.jobName,
			"error", err,
		)
		o.metrics.RecordFatalError(ctx, o.jobName, "job")
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}
	runID := runUUID.String()

	logger := slog.With("job", o.jobName, "run_id", runID)
	logger.Info("Job started", "catalogs", len(o.registry))

	results := make([]TaskResult, len(o.registry))
	g := new(errgroup.Group)
	for i, desc := range o.registry {
		g.Go(func() error {
			results[i] = o.synchronizer.SyncCatalog(ctx, desc, runID)
			return nil
		})
	}
	// SyncCatalog never returns an error, so Wait only joins
	_ = g.Wait()

	summary := &JobSummary{
		JobName:  o.jobName,
		RunID:    runID,
		Duration: time.Since(start),
	}
	for _, r := range results {
		summary.TotalProcessed += r.Processed
		summary.TotalErrors += r.Errors
	}

	// A job with partial item failures still completed; only an
	// orchestration-level failure is reported as a failed job.
	logger.Info("Job completed",
		"total_processed", summary.TotalProcessed,
		"total_errors", summary.TotalErrors,
		"duration_ms", summary.Duration.Milliseconds(),
	)

	return summary, nil
}
