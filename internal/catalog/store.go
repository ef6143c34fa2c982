package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docmentor/docmentor-mcp/internal/embedder"
	"github.com/docmentor/docmentor-mcp/internal/keyword"
	"github.com/docmentor/docmentor-mcp/internal/vector"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// defaultImportance is assigned to example documents; only API entries
// carry a scored importance.
const defaultImportance = 1.0

// Snapshot is one fully-built, immutable view of the catalog: the
// knowledge base plus both search indexes over it. Readers obtain a
// snapshot once and use it without further coordination.
type Snapshot struct {
	KB      *types.KnowledgeBase
	Keyword *keyword.Index
	Vector  *vector.Index

	// Docs maps composite keys (language/kind/id) to their keyword
	// documents, used by the retriever to hydrate fused results.
	Docs map[string]*keyword.Document

	Version int64
	BuiltAt time.Time
}

// Store publishes snapshots atomically. Queries racing a rebuild see
// either the old snapshot or the new one, never a mix.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
}

func NewStore() *Store { return &Store{} }

// Current returns the latest published snapshot, or nil before the first
// publish.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish installs snap as the current snapshot and stamps its version.
func (s *Store) Publish(snap *Snapshot) {
	snap.Version = s.version.Add(1)
	s.current.Store(snap)
}

// BuildSnapshot derives both indexes from kb concurrently and returns a
// snapshot ready to publish. The keyword index is mandatory; a vector
// build failure (no provider, provider error) degrades the snapshot to
// keyword-only and is reported as a warning rather than an error.
func BuildSnapshot(ctx context.Context, kb *types.KnowledgeBase, emb embedder.Embedder, cache *vector.Cache) (*Snapshot, []string, error) {
	kwDocs, vecDocs := indexDocuments(kb)

	var (
		kwIndex  *keyword.Index
		vecIndex *vector.Index
		warnings []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		kwIndex = keyword.Build(kwDocs)
		return nil
	})
	g.Go(func() error {
		if emb == nil {
			warnings = append(warnings, "no embedding provider configured, vector index disabled")
			return nil
		}
		idx, err := vector.Build(gctx, vecDocs, emb, cache)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("vector index unavailable: %v", err))
			return nil
		}
		vecIndex = idx
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, warnings, err
	}

	docs := make(map[string]*keyword.Document, len(kwDocs))
	for _, d := range kwDocs {
		docs[d.Key] = d
	}

	return &Snapshot{
		KB:      kb,
		Keyword: kwIndex,
		Vector:  vecIndex,
		Docs:    docs,
		BuiltAt: time.Now().UTC(),
	}, warnings, nil
}

// indexDocuments flattens the knowledge base into parallel keyword and
// vector document slices. Iteration order is made deterministic so that
// rebuilding from the same data yields identical indexes.
func indexDocuments(kb *types.KnowledgeBase) ([]*keyword.Document, []vector.Doc) {
	var kwDocs []*keyword.Document
	var vecDocs []vector.Doc

	for _, lang := range sortedKeys(kb.APIs) {
		byID := kb.APIs[lang]
		for _, id := range sortedKeys(byID) {
			api := byID[id]
			text := apiSearchText(api)
			doc := keyword.NewDocument(id, bareID(id), types.ResultAPI, lang, api.Signature, api.Description, text, api.Tags, api.ImportanceScore, "")
			kwDocs = append(kwDocs, doc)
			vecDocs = append(vecDocs, vector.Doc{
				Key:        doc.Key,
				ID:         id,
				Kind:       types.ResultAPI,
				Language:   lang,
				Importance: api.ImportanceScore,
				Text:       text,
			})
		}
	}

	for _, lang := range sortedKeys(kb.Examples) {
		byID := kb.Examples[lang]
		for _, id := range sortedKeys(byID) {
			ex := byID[id]
			text := exampleSearchText(ex)
			doc := keyword.NewDocument(id, bareID(id), types.ResultExample, lang, ex.Title, ex.UseCase, text, ex.Tags, defaultImportance, ex.Complex)
			kwDocs = append(kwDocs, doc)
			vecDocs = append(vecDocs, vector.Doc{
				Key:        doc.Key,
				ID:         id,
				Kind:       types.ResultExample,
				Language:   lang,
				Importance: defaultImportance,
				Complexity: ex.Complex,
				Text:       text,
			})
		}
	}

	return kwDocs, vecDocs
}

// apiSearchText assembles the searchable surface of an API entry. The
// bare id is included as its own term so an unqualified query token can
// match a dotted id.
func apiSearchText(api *types.APIEntry) string {
	parts := []string{api.APIID, bareID(api.APIID), api.Signature, api.Description}
	parts = append(parts, api.SearchKeywords...)
	parts = append(parts, api.Tags...)
	for _, p := range api.Parameters {
		parts = append(parts, p.Name)
	}
	return strings.Join(parts, " ")
}

// exampleSearchText assembles the searchable surface of an example.
func exampleSearchText(ex *types.ExampleEntry) string {
	parts := []string{ex.Title, ex.UseCase}
	parts = append(parts, ex.APIsUsed...)
	parts = append(parts, ex.Tags...)
	return strings.Join(parts, " ")
}

// bareID returns the last dot segment of an id, the token an
// unqualified query is expected to use.
func bareID(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
