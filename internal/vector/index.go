package vector

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/docmentor/docmentor-mcp/internal/embedder"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Doc is one catalog entry prepared for embedding.
type Doc struct {
	Key        string // globally unique: language/kind/id
	ID         string
	Kind       types.ResultKind
	Language   string
	Importance float64
	Complexity types.Complexity

	// Text is the searchable text that gets embedded.
	Text string
}

// entry is an indexed document with its embedding.
type entry struct {
	doc    Doc
	vector []float32
}

// Hit is a scored similarity match.
type Hit struct {
	Key        string
	Kind       types.ResultKind
	Similarity float64
	Rank       int // 1-based, assigned after sorting
}

// Filters narrow a similarity search. Zero values disable each filter.
type Filters struct {
	Language      string
	Kind          types.ResultKind
	MinImportance float64
	Complexity    types.Complexity
}

// Index is an immutable in-memory similarity index over one catalog
// snapshot. A nil *Index is valid and reports Available() == false.
type Index struct {
	entries   []entry
	modelID   string
	dimension int
}

// Available reports whether the vector capability is usable. Callers must
// check this before depending on vector results; the hybrid retriever
// falls back to keyword-only mode when it is false.
func (ix *Index) Available() bool {
	return ix != nil && len(ix.entries) > 0
}

// ModelID returns the embedding model identifier the index was built with.
func (ix *Index) ModelID() string {
	if ix == nil {
		return ""
	}
	return ix.modelID
}

// Len returns the number of indexed entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// Build embeds every document and assembles the index. The persistent
// cache is consulted first so unchanged content is never re-embedded;
// misses are batched through the provider and written back. Embedding
// happens only here, during the build phase, never on the query hot path.
func Build(ctx context.Context, docs []Doc, emb embedder.Embedder, cache *Cache) (*Index, error) {
	if emb == nil {
		return nil, embedder.ErrCapabilityDisabled
	}
	if len(docs) == 0 {
		return &Index{modelID: modelID(emb)}, nil
	}

	model := modelID(emb)
	entries := make([]entry, len(docs))

	// Resolve cached vectors and collect the texts that still need the
	// provider.
	var missing []int
	for i, doc := range docs {
		entries[i].doc = doc
		hash := embedder.ComputeHash(doc.Text)

		if cache != nil {
			vec, ok, err := cache.Get(ctx, model, hash)
			if err != nil {
				return nil, err
			}
			if ok {
				entries[i].vector = vec
				continue
			}
		}
		missing = append(missing, i)
	}

	// Batch the misses through the provider.
	for start := 0; start < len(missing); start += embedder.DefaultBatchSize {
		end := start + embedder.DefaultBatchSize
		if end > len(missing) {
			end = len(missing)
		}
		batch := missing[start:end]

		texts := make([]string, len(batch))
		for j, i := range batch {
			texts[j] = docs[i].Text
		}

		resp, err := emb.EmbedBatch(ctx, embedder.BatchRequest{Texts: texts})
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}

		for j, i := range batch {
			vec := resp.Embeddings[j].Vector
			entries[i].vector = vec
			if cache != nil {
				hash := embedder.ComputeHash(docs[i].Text)
				if err := cache.Put(ctx, model, hash, vec); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Index{
		entries:   entries,
		modelID:   model,
		dimension: emb.Dimension(),
	}, nil
}

// Search ranks entries by cosine similarity to the query embedding,
// descending, with ties broken by id for determinism. Returns the top k.
func (ix *Index) Search(queryVector []float32, k int, f Filters) []Hit {
	if !ix.Available() || len(queryVector) == 0 {
		return nil
	}

	hits := make([]Hit, 0, k)
	for _, e := range ix.entries {
		if !matchesFilters(e.doc, f) {
			continue
		}
		sim := cosineSimilarity(queryVector, e.vector)
		hits = append(hits, Hit{Key: e.doc.Key, Kind: e.doc.Kind, Similarity: sim})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Key < hits[j].Key
	})

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits
}

func matchesFilters(doc Doc, f Filters) bool {
	if f.Language != "" && doc.Language != f.Language {
		return false
	}
	if f.Kind != "" && doc.Kind != f.Kind {
		return false
	}
	if doc.Importance < f.MinImportance {
		return false
	}
	if f.Complexity != "" && doc.Complexity != f.Complexity {
		return false
	}
	return true
}

// modelID namespaces the cache by provider and model so switching models
// never serves stale vectors.
func modelID(emb embedder.Embedder) string {
	return emb.Provider() + "/" + emb.Model()
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineSimilarity is an exported helper for testing
func CosineSimilarity(a, b []float32) float64 {
	return cosineSimilarity(a, b)
}

// SerializeVector is an exported helper for testing
func SerializeVector(vector []float32) []byte {
	return serializeVector(vector)
}

// DeserializeVector is an exported helper for testing
func DeserializeVector(blob []byte) []float32 {
	return deserializeVector(blob)
}
