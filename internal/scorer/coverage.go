package scorer

// Tier classifies how thoroughly an API is documented.
type Tier int

const (
	TierUndocumented Tier = 0 // no mention anywhere
	TierMentioned    Tier = 1 // named in prose only
	TierHasExample   Tier = 2 // appears in at least one code example
	TierDedicated    Tier = 3 // has its own documentation section
)

// String returns the tier's label.
func (t Tier) String() string {
	switch t {
	case TierMentioned:
		return "mentioned"
	case TierHasExample:
		return "has_example"
	case TierDedicated:
		return "dedicated_section"
	default:
		return "undocumented"
	}
}

// Evidence is the documentation evidence gathered for one API.
type Evidence struct {
	Mentioned           bool
	AppearsInExamples   bool
	HasDedicatedSection bool
}

// CoverageTier selects the highest tier the evidence supports. Precedence
// is strict: a dedicated section always wins over example usage, which
// always wins over a plain mention.
func CoverageTier(ev Evidence) Tier {
	switch {
	case ev.HasDedicatedSection:
		return TierDedicated
	case ev.AppearsInExamples:
		return TierHasExample
	case ev.Mentioned:
		return TierMentioned
	default:
		return TierUndocumented
	}
}

// CoverageMetrics aggregates tier classifications across a catalog for
// upstream reporting.
type CoverageMetrics struct {
	TotalAPIs             int     `json:"total_apis"`
	Documented            int     `json:"documented"`
	WithExamples          int     `json:"with_examples"`
	WithDedicatedSections int     `json:"with_dedicated_sections"`
	Undocumented          int     `json:"undocumented"`
	CoveragePct           float64 `json:"coverage_percentage"`
	ExampleCoveragePct    float64 `json:"example_coverage_percentage"`
	CompleteCoveragePct   float64 `json:"complete_coverage_percentage"`
}

// ComputeMetrics summarizes a set of tier classifications.
func ComputeMetrics(tiers []Tier) CoverageMetrics {
	m := CoverageMetrics{TotalAPIs: len(tiers)}
	for _, t := range tiers {
		switch {
		case t == TierUndocumented:
			m.Undocumented++
			continue
		case t == TierDedicated:
			m.WithDedicatedSections++
		}
		if t >= TierHasExample {
			m.WithExamples++
		}
		m.Documented++
	}
	if m.TotalAPIs > 0 {
		total := float64(m.TotalAPIs)
		m.CoveragePct = float64(m.Documented) / total * 100
		m.ExampleCoveragePct = float64(m.WithExamples) / total * 100
		m.CompleteCoveragePct = float64(m.WithDedicatedSections) / total * 100
	}
	return m
}
