package vector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the embedding cache schema version
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a cache schema migration
type Migration struct {
	Version string
	Up      string
}

// AllMigrations contains all cache migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Cached embeddings keyed by (model, content hash) so rebuilds after an
-- unrelated catalog change skip unchanged content.
CREATE TABLE IF NOT EXISTS embeddings (
    model_id     TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    dimension    INTEGER NOT NULL,
    vector       BLOB NOT NULL,
    created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (model_id, content_hash)
);

CREATE INDEX IF NOT EXISTS idx_embeddings_model ON embeddings(model_id);
`

// ApplyMigrations brings the cache database up to the current schema
// version, applying only migrations newer than what is recorded.
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	applied, err := appliedVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range AllMigrations {
		target, err := semver.NewVersion(m.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %q: %w", m.Version, err)
		}
		if applied != nil && !target.GreaterThan(applied) {
			continue
		}
		if _, err := db.ExecContext(ctx, m.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Version, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.Version, err)
		}
	}

	return nil
}

// appliedVersion returns the highest applied schema version, or nil when
// the database is fresh.
func appliedVersion(ctx context.Context, db *sql.DB) (*semver.Version, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_version`)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var highest *semver.Version
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue // ignore unparseable historical rows
		}
		if highest == nil || v.GreaterThan(highest) {
			highest = v
		}
	}
	return highest, rows.Err()
}
