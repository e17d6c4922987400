// Package batch provides the HTTP handlers for triggering batch jobs.
package batch

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ayudahub/snpsap-sync-server/internal/sync"
)

// SyncResponse is the envelope returned on a completed job
type SyncResponse struct {
	Success bool      `json:"success"`
	Stats   SyncStats `json:"stats"`
}

// SyncStats carries the aggregate counts of a completed job. Per-item
// diagnostics stay in the logs and metrics so the response size does not
// depend on catalog size.
type SyncStats struct {
	TotalProcessed uint64 `json:"totalProcessed"`
	TotalErrors    uint64 `json:"totalErrors"`
}

// FailureResponse is the envelope returned on an orchestration-level failure
type FailureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Routes defines the batch trigger routes with dependency injection
type Routes struct {
	runner sync.JobRunner
}

// NewRoutes creates a new Routes instance with the provided job runner
func NewRoutes(runner sync.JobRunner) *Routes {
	return &Routes{runner: runner}
}

// Router creates a new router for the batch trigger API
func Router(runner sync.JobRunner) http.Handler {
	routes := NewRoutes(runner)

	r := chi.NewRouter()
	r.Post("/sync-catalogos-basicos", routes.triggerCatalogSync)

	return r
}

// triggerCatalogSync handles POST /batch/sync-catalogos-basicos
func (br *Routes) triggerCatalogSync(w http.ResponseWriter, r *http.Request) {
	// Once triggered, the job runs to completion: a caller disconnect or the
	// request deadline must not cancel in-flight fetches and upserts
	ctx := context.WithoutCancel(r.Context())

	summary, err := br.runner.RunJob(ctx)
	if err != nil {
		// Full detail goes to the logs; the caller gets a generic failure
		slog.Error("Sync job failed", "error", err)
		br.writeJSON(w, http.StatusInternalServerError, FailureResponse{
			Success: false,
			Error:   "Job failed",
		})
		return
	}

	br.writeJSON(w, http.StatusOK, SyncResponse{
		Success: true,
		Stats: SyncStats{
			TotalProcessed: summary.TotalProcessed,
			TotalErrors:    summary.TotalErrors,
		},
	})
}

// writeJSON writes data as a JSON response with the given status
func (*Routes) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
