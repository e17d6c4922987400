package snpsap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayudahub/snpsap-sync-server/internal/snpsap"
)

func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	t.Run("requires base URL", func(t *testing.T) {
		t.Parallel()

		_, err := snpsap.NewDefaultClient("", nil)
		require.Error(t, err)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()

		var gotPath string
		server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client, err := snpsap.NewDefaultClient(server.URL+"/", nil)
		require.NoError(t, err)

		_, err = client.FetchCatalog(context.Background(), "/finalidades", "GE")
		require.NoError(t, err)
		assert.Equal(t, "/finalidades", gotPath)
	})
}

func TestDefaultClient_FetchCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		wantItems []snpsap.CatalogItem
		wantErr   bool
	}{
		{
			name:   "numeric ids",
			status: http.StatusOK,
			body:   `[{"id":1,"descripcion":"Empleo"},{"id":2,"descripcion":"Cultura"}]`,
			wantItems: []snpsap.CatalogItem{
				{ID: "1", Description: "Empleo"},
				{ID: "2", Description: "Cultura"},
			},
		},
		{
			name:   "string ids",
			status: http.StatusOK,
			body:   `[{"id":"A05","descripcion":"Subvención"}]`,
			wantItems: []snpsap.CatalogItem{
				{ID: "A05", Description: "Subvención"},
			},
		},
		{
			name:      "204 yields empty list",
			status:    http.StatusNoContent,
			wantItems: []snpsap.CatalogItem{},
		},
		{
			name:      "empty array",
			status:    http.StatusOK,
			body:      `[]`,
			wantItems: []snpsap.CatalogItem{},
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			status:  http.StatusOK,
			body:    `{"not":"an array"`,
			wantErr: true,
		},
		{
			name:    "unexpected JSON shape",
			status:  http.StatusOK,
			body:    `{"items":[]}`,
			wantErr: true,
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

			client, err := snpsap.NewDefaultClient(server.URL, nil)
			require.NoError(t, err)

			items, err := client.FetchCatalog(context.Background(), "/finalidades", "GE")

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantItems, items)
		})
	}
}

func TestDefaultClient_FetchCatalog_PortalQueryParam(t *testing.T) {
	t.Parallel()

	var gotQuery string
	server := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client, err := snpsap.NewDefaultClient(server.URL, nil)
	require.NoError(t, err)

	_, err = client.FetchCatalog(context.Background(), "/actividades", "G E")
	require.NoError(t, err)

	// Portal codes must be URL-encoded
	assert.Equal(t, "vpd=G+E", gotQuery)
}

func TestDefaultClient_FetchCatalog_Validation(t *testing.T) {
	t.Parallel()

	client, err := snpsap.NewDefaultClient("http://localhost:9", nil)
	require.NoError(t, err)

	_, err = client.FetchCatalog(context.Background(), "", "GE")
	require.Error(t, err)

	_, err = client.FetchCatalog(context.Background(), "/finalidades", "")
	require.Error(t, err)
}

func TestExternalID_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    snpsap.ExternalID
		wantErr bool
	}{
		{name: "integer", input: `42`, want: "42"},
		{name: "large integer keeps precision", input: `9007199254740993`, want: "9007199254740993"},
		{name: "string", input: `"B12"`, want: "B12"},
		{name: "object is rejected", input: `{}`, wantErr: true},
		{name: "array is rejected", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var id snpsap.ExternalID
			err := json.Unmarshal([]byte(tt.input), &id)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
