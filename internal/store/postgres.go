package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ayudahub/snpsap-sync-server/internal/config"
)

// The WHERE clause keeps identical re-runs from rewriting rows: an upsert
// with an unchanged description leaves updated_at alone.
const upsertQuery = `
INSERT INTO catalog_items (catalog_kind, external_id, description)
VALUES ($1, $2, $3)
ON CONFLICT (catalog_kind, external_id)
DO UPDATE SET description = EXCLUDED.description, updated_at = now()
WHERE catalog_items.description IS DISTINCT FROM EXCLUDED.description
`

// pgStore is a Store implementation backed by PostgreSQL
type pgStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store from the given
// configuration and verifies the connection.
func NewPostgresStore(ctx context.Context, cfg *config.DatabaseConfig) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connString, err := cfg.ConnectionString()
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolCfg.MaxConns = cfg.GetMaxConns()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection established",
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
	)

	return &pgStore{pool: pool}, nil
}

// NewPostgresStoreFromPool wraps an existing pool. The caller keeps ownership
// of the pool unless Close is called on the returned store.
func NewPostgresStoreFromPool(pool *pgxpool.Pool) (Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgx pool is required")
	}
	return &pgStore{pool: pool}, nil
}

// Upsert inserts or updates one catalog item
func (s *pgStore) Upsert(ctx context.Context, catalogKind, externalID, description string) error {
	if catalogKind == "" {
		return fmt.Errorf("catalog kind is required")
	}
	if externalID == "" {
		return fmt.Errorf("external id is required")
	}

	if _, err := s.pool.Exec(ctx, upsertQuery, catalogKind, externalID, description); err != nil {
		return fmt.Errorf("failed to upsert catalog item %s/%s: %w", catalogKind, externalID, err)
	}

	return nil
}

// Ping verifies the database connection is still alive
func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *pgStore) Close() {
	s.pool.Close()
}
