package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrProviderFailed     = errors.New("embedding provider failed")
	ErrUnsupportedModel   = errors.New("unsupported model")
	ErrEmptyText          = errors.New("text cannot be empty")
	ErrBatchTooLarge      = errors.New("batch size exceeds limit")
	ErrCapabilityDisabled = errors.New("embedding capability not configured")
)

// Embedding is a vector embedding with provenance metadata.
type Embedding struct {
	Vector    []float32
	Dimension int
	Provider  string
	Model     string
	Hash      string // content hash used as the cache key
}

// Request asks for a single embedding.
type Request struct {
	Text string
}

// BatchRequest asks for embeddings of multiple texts in one provider call.
type BatchRequest struct {
	Texts []string
}

// BatchResponse carries the embeddings for a BatchRequest in input order.
type BatchResponse struct {
	Embeddings []*Embedding
	Provider   string
	Model      string
}

// Embedder generates vector embeddings. The embedding model itself is an
// external capability; implementations only manage the calls around it.
type Embedder interface {
	Embed(ctx context.Context, req Request) (*Embedding, error)
	EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error)

	// Dimension returns the vector dimension this provider produces.
	Dimension() int
	Provider() string
	Model() string
	Close() error
}

// Cache is an in-memory LRU of embeddings keyed by content hash. It sits
// in front of the persistent on-disk cache to avoid repeated hashing and
// disk reads within one build.
type Cache struct {
	cache *lru.Cache[string, *Embedding]
}

// NewCache creates an embedding cache with LRU eviction.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[string, *Embedding](maxLen)
	if err != nil {
		cache, _ = lru.New[string, *Embedding](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a deep copy of a cached embedding. A copy is returned so
// caller mutations cannot pollute the cache.
func (c *Cache) Get(hash string) (*Embedding, bool) {
	emb, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	vector := make([]float32, len(emb.Vector))
	copy(vector, emb.Vector)
	return &Embedding{
		Vector:    vector,
		Dimension: emb.Dimension,
		Provider:  emb.Provider,
		Model:     emb.Model,
		Hash:      emb.Hash,
	}, true
}

// Set stores an embedding, evicting the least recently used entry at
// capacity.
func (c *Cache) Set(hash string, emb *Embedding) {
	c.cache.Add(hash, emb)
}

// Size returns the current cache size.
func (c *Cache) Size() int { return c.cache.Len() }

// Clear empties the cache.
func (c *Cache) Clear() { c.cache.Purge() }

// ComputeHash returns the SHA-256 content hash used to key cached
// embeddings.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// ValidateRequest validates a single embedding request.
func ValidateRequest(req Request) error {
	if req.Text == "" {
		return ErrEmptyText
	}
	return nil
}

// ValidateBatchRequest validates a batch embedding request.
func ValidateBatchRequest(req BatchRequest) error {
	if len(req.Texts) == 0 {
		return fmt.Errorf("%w: no texts provided", ErrInvalidInput)
	}
	for i, text := range req.Texts {
		if text == "" {
			return fmt.Errorf("%w: text at index %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}
