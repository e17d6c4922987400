package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayudahub/snpsap-sync-server/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(tt.timeout)

			require.NotNil(t, client, "client should not be nil")
		})
	}
}

func TestDefaultClient_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		wantBody     []byte
		wantHTTPErr  bool
		wantHTTPCode int
	}{
		{
			name:     "200 returns body",
			status:   http.StatusOK,
			body:     `[{"id":1,"descripcion":"x"}]`,
			wantBody: []byte(`[{"id":1,"descripcion":"x"}]`),
		},
		{
			name:     "204 returns nil body without error",
			status:   http.StatusNoContent,
			wantBody: nil,
		},
		{
			name:         "404 returns HTTPError",
			status:       http.StatusNotFound,
			wantHTTPErr:  true,
			wantHTTPCode: http.StatusNotFound,
		},
		{
			name:         "500 returns HTTPError",
			status:       http.StatusInternalServerError,
			wantHTTPErr:  true,
			wantHTTPCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			}))
			defer server.Close()

			client := httpclient.NewDefaultClient(0)
			body, err := client.Get(context.Background(), server.URL)

			if tt.wantHTTPErr {
				require.Error(t, err)
				var httpErr *httpclient.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, tt.wantHTTPCode, httpErr.StatusCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestDefaultClient_Get_SetsHeaders(t *testing.T) {
	t.Parallel()

	var gotAccept, gotUserAgent string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := httpclient.NewDefaultClient(0)
	_, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, httpclient.UserAgent, gotUserAgent)
}

func TestDefaultClient_Get_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := httpclient.NewDefaultClient(0)
	_, err := client.Get(ctx, server.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultClient_Get_NetworkFailure(t *testing.T) {
	t.Parallel()

	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := server.URL
	server.Close()

	client := httpclient.NewDefaultClient(time.Second)
	_, err := client.Get(context.Background(), url)

	require.Error(t, err)
}
