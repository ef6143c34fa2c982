package keyword

import (
	"math"
	"sort"
	"strings"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Boost constants. Tunable heuristics, not derived from a principled
// model; defaults match the original retrieval design.
const (
	// ExactMatchBoost multiplies the score when a query token equals the
	// entry's bare id.
	ExactMatchBoost = 2.0
)

// Document is one indexable catalog entry flattened into searchable form.
type Document struct {
	Key      string // globally unique: language/kind/id, used for fusion identity
	ID       string // entry id, unique within its kind+language namespace
	BareID   string // last segment of the id, used for exact-match boosting
	Kind     types.ResultKind
	Language string
	Title    string
	Summary  string

	Tags       map[string]struct{}
	Importance float64
	Complexity types.Complexity

	termCounts map[string]int
	termTotal  int
}

// Hit is a scored index match.
type Hit struct {
	Doc   *Document
	Score float64
	Rank  int // 1-based, assigned after sorting
}

// Filters narrow a search to a language, entry kind, minimum importance,
// or example complexity. Zero values disable each filter.
type Filters struct {
	Language      string
	Kind          types.ResultKind
	MinImportance float64
	Complexity    types.Complexity
}

// Index is an immutable TF-IDF index over one catalog snapshot. Build it
// once; concurrent read-only searches are safe.
type Index struct {
	docs []*Document
	idf  map[string]float64
}

// NewDocument prepares a document for indexing from its searchable text.
// The document key is derived as language/kind/id.
func NewDocument(id, bareID string, kind types.ResultKind, language, title, summary string, searchable string, tags []string, importance float64, complexity types.Complexity) *Document {
	tagSet := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tagSet[strings.ToLower(tag)] = struct{}{}
	}

	terms := Tokenize(searchable)
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}

	return &Document{
		Key:        language + "/" + string(kind) + "/" + id,
		ID:         id,
		BareID:     strings.ToLower(bareID),
		Kind:       kind,
		Language:   language,
		Title:      title,
		Summary:    summary,
		Tags:       tagSet,
		Importance: importance,
		Complexity: complexity,
		termCounts: counts,
		termTotal:  len(terms),
	}
}

// Build constructs the index and computes smoothed idf(t) = ln(1 + N/df(t))
// across the corpus. The smoothing keeps idf strictly positive even for a
// term present in every document, so an exact bare-id match on a universal
// term still surfaces. An empty corpus yields a valid index that matches
// nothing.
func Build(docs []*Document) *Index {
	df := make(map[string]int)
	for _, d := range docs {
		for term := range d.termCounts {
			df[term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(1 + n/float64(count))
	}

	return &Index{docs: docs, idf: idf}
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int { return len(ix.docs) }

// Search scores the query against every document and returns the top k
// hits. Results are fully deterministic: descending score, then descending
// importance, then id ascending. An empty corpus or a query with no known
// tokens returns an empty slice, not an error.
func (ix *Index) Search(query string, k int, f Filters) []Hit {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || len(ix.docs) == 0 {
		return nil
	}

	hits := make([]Hit, 0, k)
	for _, doc := range ix.docs {
		if !matchesFilters(doc, f) {
			continue
		}

		raw := ix.tfidf(queryTokens, doc)
		if raw <= 0 {
			continue
		}

		score := raw
		if exactIDMatch(queryTokens, doc) {
			score *= ExactMatchBoost
		}
		score *= 1.0 + tagOverlap(queryTokens, doc.Tags)

		// Importance is a monotonic re-weighting: it biases ranking toward
		// central APIs without inventing matches.
		score *= doc.Importance

		hits = append(hits, Hit{Doc: doc, Score: score})
	}

	sortHits(hits)

	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	for i := range hits {
		hits[i].Rank = i + 1
	}
	return hits
}

// tfidf sums tf(t,d) * idf(t) over the query tokens, with term frequency
// normalized by document length.
func (ix *Index) tfidf(queryTokens []string, doc *Document) float64 {
	if doc.termTotal == 0 {
		return 0
	}
	score := 0.0
	for _, t := range queryTokens {
		count, ok := doc.termCounts[t]
		if !ok {
			continue
		}
		tf := float64(count) / float64(doc.termTotal)
		score += tf * ix.idf[t]
	}
	return score
}

// exactIDMatch reports whether any query token equals the document's bare
// id or full id.
func exactIDMatch(queryTokens []string, doc *Document) bool {
	fullID := strings.ToLower(doc.ID)
	for _, t := range queryTokens {
		if t == doc.BareID || t == fullID {
			return true
		}
	}
	return false
}

// tagOverlap returns the fraction of query tokens present in the tag set.
func tagOverlap(queryTokens []string, tags map[string]struct{}) float64 {
	if len(tags) == 0 {
		return 0
	}
	matched := 0
	for _, t := range queryTokens {
		if _, ok := tags[t]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func matchesFilters(doc *Document, f Filters) bool {
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

// sortHits orders by score descending, importance descending, id
// ascending. The id tie-break guarantees identical output across runs.
func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Doc.Importance != hits[j].Doc.Importance {
			return hits[i].Doc.Importance > hits[j].Doc.Importance
		}
		return hits[i].Doc.Key < hits[j].Doc.Key
	})
}
