package scorer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

func TestImportance_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, Importance(Signals{}))

	all := Signals{
		Exported:       true,
		HasDescription: true,
		NonPrivateName: true,
		TopLevel:       true,
		CommonVerbName: true,
	}
	assert.InDelta(t, 1.0, Importance(all), 1e-9)
}

func TestImportance_Weights(t *testing.T) {
	// Each signal contributes its weight over the 0.8 maximum sum.
	assert.InDelta(t, 0.3/0.8, Importance(Signals{Exported: true}), 1e-9)
	assert.InDelta(t, 0.2/0.8, Importance(Signals{HasDescription: true}), 1e-9)
	assert.InDelta(t, 0.1/0.8, Importance(Signals{NonPrivateName: true}), 1e-9)
	assert.InDelta(t, 0.5/0.8, Importance(Signals{Exported: true, HasDescription: true}), 1e-9)
}

func TestImportance_Monotonic(t *testing.T) {
	// Granting any additional signal never lowers the score.
	base := Signals{HasDescription: true}
	withMore := base
	withMore.Exported = true
	assert.Greater(t, Importance(withMore), Importance(base))

	withAll := withMore
	withAll.NonPrivateName = true
	withAll.TopLevel = true
	withAll.CommonVerbName = true
	assert.Greater(t, Importance(withAll), Importance(withMore))
	assert.LessOrEqual(t, Importance(withAll), 1.0)
}

func TestFromAPI(t *testing.T) {
	tests := []struct {
		name string
		api  types.APIEntry
		want Signals
	}{
		{
			name: "top-level public verb",
			api:  types.APIEntry{APIID: "lancedb.connect", Description: "Connect to a database"},
			want: Signals{Exported: true, HasDescription: true, NonPrivateName: true, TopLevel: true, CommonVerbName: true},
		},
		{
			name: "private name",
			api:  types.APIEntry{APIID: "lancedb._internal"},
			want: Signals{Exported: false, NonPrivateName: false, TopLevel: true},
		},
		{
			name: "nested non-verb",
			api:  types.APIEntry{APIID: "pkg.sub.Parser"},
			want: Signals{Exported: true, NonPrivateName: true},
		},
		{
			name: "whitespace description does not count",
			api:  types.APIEntry{APIID: "pkg.thing", Description: "   "},
			want: Signals{Exported: true, NonPrivateName: true, TopLevel: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAPI(&tt.api))
		})
	}
}

func TestImportanceForAPI_Deterministic(t *testing.T) {
	api := &types.APIEntry{APIID: "db.search", Description: "Search rows"}
	first := ImportanceForAPI(api)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, ImportanceForAPI(api))
	}
	assert.False(t, math.IsNaN(first))
	assert.GreaterOrEqual(t, first, 0.0)
	assert.LessOrEqual(t, first, 1.0)
}

func TestCoverageTier_Precedence(t *testing.T) {
	assert.Equal(t, TierUndocumented, CoverageTier(Evidence{}))
	assert.Equal(t, TierMentioned, CoverageTier(Evidence{Mentioned: true}))
	assert.Equal(t, TierHasExample, CoverageTier(Evidence{Mentioned: true, AppearsInExamples: true}))

	// Dedicated section wins regardless of the other evidence.
	assert.Equal(t, TierDedicated, CoverageTier(Evidence{HasDedicatedSection: true}))
	assert.Equal(t, TierDedicated, CoverageTier(Evidence{
		Mentioned:           true,
		AppearsInExamples:   true,
		HasDedicatedSection: true,
	}))

	// Example usage wins over a bare mention even without a mention flag.
	assert.Equal(t, TierHasExample, CoverageTier(Evidence{AppearsInExamples: true}))
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "undocumented", TierUndocumented.String())
	assert.Equal(t, "mentioned", TierMentioned.String())
	assert.Equal(t, "has_example", TierHasExample.String())
	assert.Equal(t, "dedicated_section", TierDedicated.String())
}

func TestComputeMetrics(t *testing.T) {
	tiers := []Tier{
		TierUndocumented,
		TierMentioned,
		TierHasExample,
		TierDedicated,
	}
	m := ComputeMetrics(tiers)

	assert.Equal(t, 4, m.TotalAPIs)
	assert.Equal(t, 3, m.Documented)
	assert.Equal(t, 2, m.WithExamples) // dedicated implies example coverage
	assert.Equal(t, 1, m.WithDedicatedSections)
	assert.Equal(t, 1, m.Undocumented)
	assert.InDelta(t, 75.0, m.CoveragePct, 1e-9)
	assert.InDelta(t, 50.0, m.ExampleCoveragePct, 1e-9)
	assert.InDelta(t, 25.0, m.CompleteCoveragePct, 1e-9)
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil)
	assert.Equal(t, 0, m.TotalAPIs)
	assert.Equal(t, 0.0, m.CoveragePct)
}
