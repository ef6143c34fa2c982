package retriever

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/docmentor/docmentor-mcp/internal/catalog"
	"github.com/docmentor/docmentor-mcp/internal/embedder"
	"github.com/docmentor/docmentor-mcp/internal/keyword"
	"github.com/docmentor/docmentor-mcp/internal/vector"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Fusion constants.
const (
	// rrfK dampens the contribution of low ranks in reciprocal rank
	// fusion. 60 is the value from the original RRF paper and is not
	// sensitive to small corpora.
	rrfK = 60

	// candidateMultiplier sizes each sub-index request relative to the
	// caller's top-k so fusion has room to re-order.
	candidateMultiplier = 2

	// DefaultTopK applies when a request does not set TopK.
	DefaultTopK = 5
)

// ErrNotReady is returned when no catalog snapshot has been published yet.
var ErrNotReady = errors.New("retriever: no catalog snapshot published")

// Options parameterize one search.
type Options struct {
	Query         string
	Language      string
	Kind          types.ResultKind // empty searches both kinds
	TopK          int
	MinImportance float64
	Complexity    types.Complexity
}

// Response is one search outcome: the fused results plus the mode the
// query actually ran in, so callers can tell a degraded keyword-only
// answer from a hybrid one. Snapshot is the handle the query ran
// against; callers resolving result ids back to full records must use
// it rather than re-reading the store, or a concurrent publish would
// hand them entries from a different snapshot than the ranks came from.
type Response struct {
	Results  []types.SearchResult `json:"results"`
	Mode     types.SearchMode     `json:"mode"`
	Snapshot *catalog.Snapshot    `json:"-"`
}

// Retriever is the query surface over the current catalog snapshot. It
// holds no mutable state of its own beyond the response cache; all
// retrieval is pure computation over immutable indexes.
type Retriever struct {
	store *catalog.Store
	emb   embedder.Embedder // nil means keyword-only
	cache *queryCache
	log   *zap.Logger
}

// New builds a retriever over store. emb may be nil, which pins every
// query to keyword-only mode.
func New(store *catalog.Store, emb embedder.Embedder, log *zap.Logger) *Retriever {
	if log == nil {
		log = zap.NewNop()
	}
	return &Retriever{
		store: store,
		emb:   emb,
		cache: newQueryCache(defaultCacheSize, defaultCacheTTL),
		log:   log,
	}
}

// Search runs one hybrid query. The vector side is consulted only when
// the snapshot's vector index is available and the query embedding
// succeeds; any failure there degrades this query to keyword-only rather
// than erroring.
func (r *Retriever) Search(ctx context.Context, opts Options) (*Response, error) {
	snap := r.store.Current()
	if snap == nil {
		return nil, ErrNotReady
	}

	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}

	if resp, ok := r.cache.get(snap.Version, opts); ok {
		return resp, nil
	}

	fetch := opts.TopK * candidateMultiplier

	kwHits := snap.Keyword.Search(opts.Query, fetch, keyword.Filters{
		Language:      opts.Language,
		Kind:          opts.Kind,
		MinImportance: opts.MinImportance,
		Complexity:    opts.Complexity,
	})

	mode := types.ModeKeywordOnly
	var vecHits []vector.Hit
	if snap.Vector.Available() && r.emb != nil {
		emb, err := r.emb.Embed(ctx, embedder.Request{Text: opts.Query})
		if err != nil {
			r.log.Warn("query embedding failed, falling back to keyword-only",
				zap.Error(err))
		} else {
			vecHits = snap.Vector.Search(emb.Vector, fetch, vector.Filters{
				Language:      opts.Language,
				Kind:          opts.Kind,
				MinImportance: opts.MinImportance,
				Complexity:    opts.Complexity,
			})
			mode = types.ModeHybrid
		}
	}

	results := fuse(snap, kwHits, vecHits, opts.TopK)
	resp := &Response{Results: results, Mode: mode, Snapshot: snap}
	r.cache.put(snap.Version, opts, resp)
	return resp, nil
}

// candidate accumulates fusion state for one composite key.
type candidate struct {
	key         string
	score       float64
	keywordRank int
	vectorRank  int
}

// fuse merges the two ranked lists with reciprocal rank fusion and
// re-ranks by importance. Candidates are identified by their composite
// key so an api and an example sharing a bare id never collide.
func fuse(snap *catalog.Snapshot, kwHits []keyword.Hit, vecHits []vector.Hit, k int) []types.SearchResult {
	byKey := make(map[string]*candidate, len(kwHits)+len(vecHits))

	for _, h := range kwHits {
		byKey[h.Doc.Key] = &candidate{
			key:         h.Doc.Key,
			score:       rrfContribution(h.Rank),
			keywordRank: h.Rank,
		}
	}
	for _, h := range vecHits {
		c, ok := byKey[h.Key]
		if !ok {
			c = &candidate{key: h.Key}
			byKey[h.Key] = c
		}
		c.score += rrfContribution(h.Rank)
		c.vectorRank = h.Rank
	}

	candidates := make([]*candidate, 0, len(byKey))
	for _, c := range byKey {
		if doc, ok := snap.Docs[c.key]; ok {
			c.score *= doc.Importance
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		ci, cj := candidates[i], candidates[j]
		if ci.score != cj.score {
			return ci.score > cj.score
		}
		di, dj := snap.Docs[ci.key], snap.Docs[cj.key]
		if di != nil && dj != nil && di.Importance != dj.Importance {
			return di.Importance > dj.Importance
		}
		return ci.key < cj.key
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]types.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		doc, ok := snap.Docs[c.key]
		if !ok {
			continue
		}
		results = append(results, hydrate(doc, c))
	}
	return results
}

// rrfContribution is the RRF term for one 1-based rank.
func rrfContribution(rank int) float64 {
	return 1.0 / float64(rrfK+rank)
}

// hydrate turns a fused candidate into a caller-facing result.
func hydrate(doc *keyword.Document, c *candidate) types.SearchResult {
	meta := map[string]any{
		"importance": doc.Importance,
	}
	if doc.Complexity != "" {
		meta["complexity"] = string(doc.Complexity)
	}
	return types.SearchResult{
		Kind:        doc.Kind,
		ID:          doc.ID,
		Title:       doc.Title,
		Summary:     doc.Summary,
		Language:    doc.Language,
		Score:       c.score,
		KeywordRank: c.keywordRank,
		VectorRank:  c.vectorRank,
		Metadata:    meta,
	}
}
