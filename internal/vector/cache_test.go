package vector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmentor/docmentor-mcp/internal/embedder"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(filepath.Join(t.TempDir(), "embeddings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestCache_PutGetRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	vec := []float32{0.1, -0.2, 0.3}
	require.NoError(t, cache.Put(ctx, "local/test-model", "hash1", vec))

	got, ok, err := cache.Get(ctx, "local/test-model", "hash1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vec, got)
}

func TestCache_Miss(t *testing.T) {
	cache := newTestCache(t)

	got, ok, err := cache.Get(context.Background(), "local/test-model", "no-such-hash")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCache_ModelNamespacing(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "local/model-a", "hash1", []float32{1}))

	// Same content hash under a different model is a miss.
	_, ok, err := cache.Get(ctx, "openai/model-b", "hash1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_PutReplacesExisting(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "m", "h", []float32{1, 2}))
	require.NoError(t, cache.Put(ctx, "m", "h", []float32{3, 4}))

	got, ok, err := cache.Get(ctx, "m", "h")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float32{3, 4}, got)

	n, err := cache.Count(ctx, "m")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCache_Stats(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "m", "h", []float32{1}))
	_, _, err := cache.Get(ctx, "m", "h")
	require.NoError(t, err)
	_, _, err = cache.Get(ctx, "m", "missing")
	require.NoError(t, err)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Writes)
}

func TestCache_ClosedIsTerminal(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Close())
	require.NoError(t, cache.Close()) // idempotent

	_, _, err := cache.Get(context.Background(), "m", "h")
	assert.ErrorIs(t, err, ErrCacheClosed)
	assert.ErrorIs(t, cache.Put(context.Background(), "m", "h", nil), ErrCacheClosed)
}

func TestBuild_UsesCacheAcrossRebuilds(t *testing.T) {
	cache := newTestCache(t)
	emb, err := embedder.NewLocalProvider(nil)
	require.NoError(t, err)

	ctx := context.Background()
	docs := testDocs()

	_, err = Build(ctx, docs, emb, cache)
	require.NoError(t, err)
	first := cache.Stats()
	assert.Equal(t, int64(len(docs)), first.Misses)
	assert.Equal(t, int64(len(docs)), first.Writes)

	// Second build over unchanged content is served entirely from the cache.
	_, err = Build(ctx, docs, emb, cache)
	require.NoError(t, err)
	second := cache.Stats()
	assert.Equal(t, int64(len(docs)), second.Hits)
	assert.Equal(t, first.Writes, second.Writes)
}
