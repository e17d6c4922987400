// Package snpsap provides a client for the SNPSAP public-subsidy registry API.
// It fetches the basic catalogs ("catálogos básicos") that the sync job
// reconciles into local storage.
package snpsap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/ayudahub/snpsap-sync-server/internal/httpclient"
)

// Client is an interface for fetching catalog data from the SNPSAP API
type Client interface {
	// FetchCatalog retrieves the full item list of one catalog, scoped to the
	// given portal. A 204 from upstream is a valid empty catalog, not an error.
	FetchCatalog(ctx context.Context, endpoint, portal string) ([]CatalogItem, error)
}

// DefaultClient is the default SNPSAP API client implementation
type DefaultClient struct {
	httpClient httpclient.Client
	baseURL    string
}

// NewDefaultClient creates a new SNPSAP API client for the given base URL
func NewDefaultClient(baseURL string, httpClient httpclient.Client) (*DefaultClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if httpClient == nil {
		httpClient = httpclient.NewDefaultClient(0)
	}

	return &DefaultClient{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// FetchCatalog retrieves the item list of one catalog from the SNPSAP API
func (c *DefaultClient) FetchCatalog(ctx context.Context, endpoint, portal string) ([]CatalogItem, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}
	if portal == "" {
		return nil, fmt.Errorf("portal is required")
	}

	requestURL := c.baseURL + endpoint + "?vpd=" + url.QueryEscape(portal)

	body, err := c.httpClient.Get(ctx, requestURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog from %s: %w", endpoint, err)
	}

	// Nil body means the upstream answered 204 No Content
	if body == nil {
		return []CatalogItem{}, nil
	}

	var items []CatalogItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse catalog response from %s: %w", endpoint, err)
	}

	return items, nil
}
