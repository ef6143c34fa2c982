package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

func apiDoc(id, bareID, description string, tags []string, importance float64) *Document {
	searchable := id + " " + bareID + " " + description
	for _, tag := range tags {
		searchable += " " + tag
	}
	return NewDocument(id, bareID, types.ResultAPI, "python", id, description, searchable, tags, importance, "")
}

// connectCorpus is the canonical three-entry corpus: an exact-id match
// with high importance, a near-miss with low importance, and an
// unrelated entry.
func connectCorpus() *Index {
	return Build([]*Document{
		apiDoc("db.connect", "connect", "open a connection to the database", []string{"database"}, 0.9),
		apiDoc("db.disconnect", "disconnect", "close the database connection", []string{"database"}, 0.3),
		apiDoc("table.search", "search", "query rows from a table", []string{"query"}, 0.7),
	})
}

func TestSearch_ExactMatchWins(t *testing.T) {
	ix := connectCorpus()

	hits := ix.Search("connect", 10, Filters{})
	require.NotEmpty(t, hits)

	assert.Equal(t, "db.connect", hits[0].Doc.ID)
	assert.Equal(t, 1, hits[0].Rank)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[0].Score)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	ix := connectCorpus()

	first := ix.Search("database connection", 10, Filters{})
	require.NotEmpty(t, first)

	for run := 0; run < 5; run++ {
		again := ix.Search("database connection", 10, Filters{})
		require.Len(t, again, len(first))
		for i := range first {
			assert.Equal(t, first[i].Doc.Key, again[i].Doc.Key)
			assert.Equal(t, first[i].Score, again[i].Score)
			assert.Equal(t, first[i].Rank, again[i].Rank)
		}
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	ix := Build(nil)
	hits := ix.Search("connect", 10, Filters{})
	assert.Empty(t, hits)
}

func TestSearch_UnknownTokens(t *testing.T) {
	ix := connectCorpus()
	hits := ix.Search("zzzzz qqqqq", 10, Filters{})
	assert.Empty(t, hits)
}

func TestSearch_EmptyQuery(t *testing.T) {
	ix := connectCorpus()
	assert.Empty(t, ix.Search("", 10, Filters{}))
	// Stop words and single characters tokenize to nothing.
	assert.Empty(t, ix.Search("the a an", 10, Filters{}))
}

func TestSearch_ImportanceIsMonotonic(t *testing.T) {
	base := []*Document{
		apiDoc("db.connect", "connect", "open a connection", nil, 0.5),
		apiDoc("db.open", "open", "open a file handle", nil, 0.5),
	}
	low := Build(base)
	lowHits := low.Search("connect", 10, Filters{})
	require.Len(t, lowHits, 1)

	// Raising only the importance scales the score up but cannot make a
	// non-matching document appear.
	boosted := Build([]*Document{
		apiDoc("db.connect", "connect", "open a connection", nil, 0.9),
		apiDoc("db.open", "open", "open a file handle", nil, 0.9),
	})
	boostedHits := boosted.Search("connect", 10, Filters{})
	require.Len(t, boostedHits, 1)
	assert.Equal(t, "db.connect", boostedHits[0].Doc.ID)
	assert.Greater(t, boostedHits[0].Score, lowHits[0].Score)
}

func TestSearch_UniversalTermStillMatches(t *testing.T) {
	// "connect" appears in every document, so its idf would vanish
	// without smoothing. The exact bare-id match must still surface, and
	// must still rank first.
	ix := Build([]*Document{
		apiDoc("db.connect", "connect", "open a database connection", nil, 0.5),
		apiDoc("db.reconnect", "reconnect", "connect again after a drop", nil, 0.5),
		apiDoc("pool.acquire", "acquire", "connect through the pool", nil, 0.5),
	})

	hits := ix.Search("connect", 10, Filters{})
	require.NotEmpty(t, hits)
	assert.Equal(t, "db.connect", hits[0].Doc.ID)
	for _, h := range hits {
		assert.Greater(t, h.Score, 0.0)
	}
}

func TestSearch_TagOverlapBoost(t *testing.T) {
	tagged := apiDoc("vec.query", "query", "run a vector query", []string{"vector", "query"}, 0.5)
	plain := apiDoc("txt.query", "query", "run a vector query", nil, 0.5)
	other := apiDoc("io.read", "read", "read bytes from a file", nil, 0.5)
	ix := Build([]*Document{tagged, plain, other})

	hits := ix.Search("vector query", 10, Filters{})
	require.Len(t, hits, 2)
	assert.Equal(t, "vec.query", hits[0].Doc.ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestSearch_TieBreakByKey(t *testing.T) {
	// Identical text and importance: order must fall back to the key.
	a := apiDoc("pkg.alpha", "alpha", "shared words here", nil, 0.5)
	b := apiDoc("pkg.beta", "beta", "shared words here", nil, 0.5)
	other := apiDoc("io.read", "read", "read bytes from a file", nil, 0.5)
	ix := Build([]*Document{b, a, other})

	hits := ix.Search("shared words", 10, Filters{})
	require.Len(t, hits, 2)
	assert.Equal(t, "pkg.alpha", hits[0].Doc.ID)
	assert.Equal(t, "pkg.beta", hits[1].Doc.ID)
}

func TestSearch_Filters(t *testing.T) {
	py := NewDocument("db.connect", "connect", types.ResultAPI, "python", "db.connect", "connect to db", "db.connect connect to db", nil, 0.9, "")
	ts := NewDocument("db.connect", "connect", types.ResultAPI, "typescript", "db.connect", "connect to db", "db.connect connect to db", nil, 0.9, "")
	ex := NewDocument("connect_ex1", "connect_ex1", types.ResultExample, "python", "Connecting", "connect to db", "connect to db quickstart", nil, 1.0, types.ComplexityBeginner)
	other := NewDocument("io.read", "read", types.ResultAPI, "python", "io.read", "read bytes", "io.read read bytes from a file", nil, 0.5, "")
	ix := Build([]*Document{py, ts, ex, other})

	hits := ix.Search("connect", 10, Filters{Language: "python"})
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "python", h.Doc.Language)
	}

	hits = ix.Search("connect", 10, Filters{Kind: types.ResultAPI})
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, types.ResultAPI, h.Doc.Kind)
	}

	hits = ix.Search("connect", 10, Filters{MinImportance: 0.95})
	require.Len(t, hits, 1)
	assert.Equal(t, types.ResultExample, hits[0].Doc.Kind)

	hits = ix.Search("connect", 10, Filters{Complexity: types.ComplexityAdvanced})
	assert.Empty(t, hits)
}

func TestSearch_TopKTruncation(t *testing.T) {
	ix := connectCorpus()
	hits := ix.Search("database", 1, Filters{})
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Rank)
}

func TestSearch_QualifiedIDMatch(t *testing.T) {
	ix := connectCorpus()
	hits := ix.Search("db.connect", 10, Filters{})
	require.NotEmpty(t, hits)
	assert.Equal(t, "db.connect", hits[0].Doc.ID)
}

func TestDocumentKey(t *testing.T) {
	doc := NewDocument("db.connect", "connect", types.ResultAPI, "python", "t", "s", "text", nil, 0.5, "")
	assert.Equal(t, "python/api/db.connect", doc.Key)
}
