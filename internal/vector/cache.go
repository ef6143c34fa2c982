package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// ErrCacheClosed is returned after the cache database has been closed.
var ErrCacheClosed = errors.New("embedding cache closed")

// CacheStats counts cache traffic during a build.
type CacheStats struct {
	Hits   int64
	Misses int64
	Writes int64
}

// Cache is the persistent embedding cache backed by SQLite. Records are
// keyed by (model id, content hash) so a rebuild after an unrelated
// catalog change never recomputes unchanged embeddings.
type Cache struct {
	db     *sql.DB
	closed atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
	writes atomic.Int64
}

// openDatabase opens the SQLite cache with appropriate settings.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// OpenCache opens (or creates) the embedding cache at dbPath.
func OpenCache(dbPath string) (*Cache, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply cache migrations: %w", err)
	}
	return &Cache{db: db}, nil
}

// Get returns the cached vector for (modelID, contentHash), or ok=false on
// a miss. A miss is an expected outcome, not an error.
func (c *Cache) Get(ctx context.Context, modelID, contentHash string) ([]float32, bool, error) {
	if c.closed.Load() {
		return nil, false, ErrCacheClosed
	}

	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE model_id = ? AND content_hash = ?`,
		modelID, contentHash,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached embedding: %w", err)
	}

	c.hits.Add(1)
	return deserializeVector(blob), true, nil
}

// Put stores a vector under (modelID, contentHash), replacing any prior
// record for the same key.
func (c *Cache) Put(ctx context.Context, modelID, contentHash string, vector []float32) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO embeddings (model_id, content_hash, dimension, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(model_id, content_hash) DO UPDATE SET
			dimension = excluded.dimension,
			vector = excluded.vector
	`, modelID, contentHash, len(vector), serializeVector(vector))
	if err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	c.writes.Add(1)
	return nil
}

// Stats returns the hit/miss/write counts since the cache was opened.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Writes: c.writes.Load(),
	}
}

// Count returns the number of cached embeddings for a model.
func (c *Cache) Count(ctx context.Context, modelID string) (int, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}
	var n int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM embeddings WHERE model_id = ?`, modelID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cached embeddings: %w", err)
	}
	return n, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.db.Close()
}

// serializeVector converts a float32 slice to a byte blob (little-endian)
func serializeVector(vector []float32) []byte {
	blob := make([]byte, len(vector)*4)
	for i, v := range vector {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

// deserializeVector converts a byte blob back to a float32 slice
func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}
