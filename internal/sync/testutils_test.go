package sync_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/ayudahub/snpsap-sync-server/internal/snpsap"
)

// fakeCatalogClient serves canned catalog responses keyed by endpoint.
// Endpoints registered with an error fail their fetch; a blockUntil channel
// makes an endpoint's fetch wait, for concurrency tests.
type fakeCatalogClient struct {
	mu         sync.Mutex
	items      map[string][]snpsap.CatalogItem
	errs       map[string]error
	blockUntil map[string]chan struct{}
	calls      []string
}

func newFakeCatalogClient() *fakeCatalogClient {
	return &fakeCatalogClient{
		items:      map[string][]snpsap.CatalogItem{},
		errs:       map[string]error{},
		blockUntil: map[string]chan struct{}{},
	}
}

func (f *fakeCatalogClient) FetchCatalog(_ context.Context, endpoint, portal string) ([]snpsap.CatalogItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint+"?vpd="+portal)
	gate := f.blockUntil[endpoint]
	err := f.errs[endpoint]
	items := f.items[endpoint]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (f *fakeCatalogClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeStore records upserts in memory, failing those whose
// (kind, externalID) pair was registered as failing.
type fakeStore struct {
	mu      sync.Mutex
	rows    map[string]string // kind/externalID -> description
	failing map[string]error
	order   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows:    map[string]string{},
		failing: map[string]error{},
	}
}

func storeKey(kind, externalID string) string {
	return kind + "/" + externalID
}

func (f *fakeStore) failOn(kind, externalID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[storeKey(kind, externalID)] = fmt.Errorf("constraint violation on %s/%s", kind, externalID)
}

func (f *fakeStore) Upsert(_ context.Context, catalogKind, externalID, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := storeKey(catalogKind, externalID)
	f.order = append(f.order, key)
	if err := f.failing[key]; err != nil {
		return err
	}
	f.rows[key] = description
	return nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }

func (*fakeStore) Close() {}

func (f *fakeStore) get(kind, externalID string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	desc, ok := f.rows[storeKey(kind, externalID)]
	return desc, ok
}

func (f *fakeStore) upsertOrder() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}
