// Package store contains the catalog item store and its Postgres implementation.
package store

import "context"

// Store defines the interface needed to persist synced catalog items.
// Implementations must be safe for concurrent use from multiple sync tasks.
type Store interface {
	// Upsert inserts the item if no row with (catalogKind, externalID) exists,
	// otherwise updates its description. The operation is atomic and
	// idempotent: repeating it with identical arguments is a no-op.
	Upsert(ctx context.Context, catalogKind, externalID, description string) error

	// Ping verifies the underlying storage is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying resources
	Close()
}
