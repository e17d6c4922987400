// Package sync implements the catalog synchronization pipeline: per-catalog
// sync tasks and the job orchestrator that fans them out.
package sync

import "time"

// TaskResult contains the outcome of syncing one catalog. Processed and
// Errors sum to at most the number of items fetched; a failed fetch counts
// as exactly one error with zero processed.
type TaskResult struct {
	CatalogName string
	Processed   uint64
	Errors      uint64
	Duration    time.Duration
}

// JobSummary contains the aggregated outcome of one job invocation.
// TotalProcessed and TotalErrors are the exact sums of the per-task counts.
type JobSummary struct {
	JobName        string
	RunID          string
	TotalProcessed uint64
	TotalErrors    uint64
	Duration       time.Duration
}
