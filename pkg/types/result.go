package types

// ResultKind distinguishes API results from example results.
type ResultKind string

const (
	ResultAPI     ResultKind = "api"
	ResultExample ResultKind = "example"
)

// SearchMode reports which retrieval path produced a result set.
type SearchMode string

const (
	ModeHybrid      SearchMode = "hybrid"
	ModeKeywordOnly SearchMode = "keyword_only"
)

// SearchResult is a single ranked candidate from a query. Constructed per
// query and never persisted.
type SearchResult struct {
	Kind     ResultKind `json:"kind"`
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Summary  string     `json:"summary,omitempty"`
	Language string     `json:"language"`

	// Score is the composite relevance after fusion and importance
	// re-weighting.
	Score float64 `json:"score"`

	// Contributing ranks from each sub-index, 0 when the candidate did not
	// appear in that list. Kept for explainability.
	KeywordRank int `json:"keyword_rank,omitempty"`
	VectorRank  int `json:"vector_rank,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate checks basic result invariants.
func (r *SearchResult) Validate() error {
	if r.ID == "" {
		return ErrInvalidResultID
	}
	if r.Score < 0 {
		return ErrInvalidScore
	}
	if r.Kind != ResultAPI && r.Kind != ResultExample {
		return ErrInvalidResultKind
	}
	return nil
}
