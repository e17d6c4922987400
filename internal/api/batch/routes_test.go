package batch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayudahub/snpsap-sync-server/internal/api/batch"
	"github.com/ayudahub/snpsap-sync-server/internal/sync"
)

// fakeRunner returns a canned summary or error and counts invocations
type fakeRunner struct {
	summary *sync.JobSummary
	err     error
	calls   int
	lastCtx context.Context
}

func (f *fakeRunner) RunJob(ctx context.Context) (*sync.JobSummary, error) {
	f.calls++
	f.lastCtx = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func TestTriggerCatalogSync_Success(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		summary: &sync.JobSummary{
			JobName:        "sync-catalogos-basicos",
			RunID:          "b49b81b2-9c17-4407-9d0e-74a3f0f5e7a7",
			TotalProcessed: 41,
			TotalErrors:    2,
		},
	}
	handler := batch.Router(runner)

	req := httptest.NewRequest(http.MethodPost, "/sync-catalogos-basicos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, runner.calls)
	assert.JSONEq(t, `{"success":true,"stats":{"totalProcessed":41,"totalErrors":2}}`, rec.Body.String())
}

func TestTriggerCatalogSync_SurvivesCallerDisconnect(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{summary: &sync.JobSummary{TotalProcessed: 7}}
	handler := batch.Router(runner)

	// Simulate a caller that is already gone when the job starts
	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/sync-catalogos-basicos", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, 1, runner.calls)
	require.NotNil(t, runner.lastCtx)
	// The job context is detached from the request: a disconnect or request
	// deadline never cancels a job that already started
	assert.NoError(t, runner.lastCtx.Err())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTriggerCatalogSync_JobFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: fmt.Errorf("entropy source unavailable")}
	handler := batch.Router(runner)

	req := httptest.NewRequest(http.MethodPost, "/sync-catalogos-basicos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Internal error detail must not leak to the caller
	assert.JSONEq(t, `{"success":false,"error":"Job failed"}`, rec.Body.String())
}

func TestTriggerCatalogSync_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{summary: &sync.JobSummary{}}
	handler := batch.Router(runner)

	req := httptest.NewRequest(http.MethodGet, "/sync-catalogos-basicos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 0, runner.calls)
}
