package feedback

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Priority weights.
var (
	severityWeights = map[types.Severity]int{
		types.SeverityCritical: 10,
		types.SeverityHigh:     7,
		types.SeverityMedium:   5,
		types.SeverityLow:      2,
	}
	typeWeights = map[types.IssueType]int{
		types.IssueBrokenExample:      3,
		types.IssueIncorrectSignature: 3,
		types.IssueUnclearDocs:        2,
		types.IssueMissingInfo:        2,
		types.IssueOther:              1,
	}
)

// Cluster thresholds and caps.
const (
	frequentThreshold = 2 // reports per api/example id to form a cluster
	typeThreshold     = 3 // reports per issue type to form a cluster
	criticalThreshold = 2 // critical reports to form a cluster
	maxFrequencyBoost = 3
	maxPriorityIssues = 20
	maxClusterSamples = 3
)

// Cluster pattern kinds.
const (
	PatternFrequentAPI     = "frequent_api_issues"
	PatternFrequentExample = "frequent_example_issues"
	PatternTypeCluster     = "issue_type_cluster"
	PatternCriticalCluster = "critical_severity_cluster"
)

// Summary is the high-level count section of a report.
type Summary struct {
	TotalIssues int            `json:"total_issues"`
	ByType      map[string]int `json:"by_type"`
	BySeverity  map[string]int `json:"by_severity"`
	ByStatus    map[string]int `json:"by_status"`
	Earliest    time.Time      `json:"earliest,omitempty"`
	Latest      time.Time      `json:"latest,omitempty"`
}

// Cluster is one detected pattern of related issues.
type Cluster struct {
	Pattern     string   `json:"pattern_type"`
	Description string   `json:"description"`
	Count       int      `json:"count"`
	APIID       string   `json:"api_id,omitempty"`
	ExampleID   string   `json:"example_id,omitempty"`
	IssueType   string   `json:"issue_type,omitempty"`
	SampleIDs   []string `json:"sample_issue_ids"`
}

// PrioritizedIssue pairs an issue with its computed priority and the
// score breakdown for explainability.
type PrioritizedIssue struct {
	Issue          *types.FeedbackIssue `json:"issue"`
	Priority       int                  `json:"priority_score"`
	SeverityWeight int                  `json:"severity_weight"`
	TypeWeight     int                  `json:"type_weight"`
	FrequencyBoost int                  `json:"frequency_boost"`
}

// Report is the full analyzer output.
type Report struct {
	GeneratedAt     time.Time          `json:"generated_at"`
	Summary         Summary            `json:"summary"`
	Clusters        []Cluster          `json:"clusters"`
	Priorities      []PrioritizedIssue `json:"priorities"`
	Recommendations []string           `json:"recommendations"`
	Warnings        []string           `json:"warnings,omitempty"`
}

// Analyze reads the whole log and produces a report. An empty or missing
// log yields an empty report; corrupt lines are carried as warnings.
// kb may be nil; when present it is used to flag reports against unknown
// ids in the recommendations.
func Analyze(store *Store, kb *types.KnowledgeBase) (*Report, error) {
	issues, warnings, err := store.ReadAll()
	if err != nil {
		return nil, err
	}
	report := analyze(issues, kb)
	report.Warnings = warnings
	return report, nil
}

func analyze(issues []*types.FeedbackIssue, kb *types.KnowledgeBase) *Report {
	report := &Report{
		GeneratedAt: time.Now().UTC(),
		Summary:     summarize(issues),
	}
	if len(issues) == 0 {
		return report
	}

	byAPI := groupBy(issues, func(i *types.FeedbackIssue) string { return i.APIID })
	byExample := groupBy(issues, func(i *types.FeedbackIssue) string { return i.ExampleID })

	report.Clusters = detectClusters(issues, byAPI, byExample)
	report.Priorities = prioritize(issues, byAPI, byExample)
	report.Recommendations = recommend(report.Summary, report.Clusters, issues, kb)
	return report
}

func summarize(issues []*types.FeedbackIssue) Summary {
	s := Summary{
		TotalIssues: len(issues),
		ByType:      make(map[string]int),
		BySeverity:  make(map[string]int),
		ByStatus:    make(map[string]int),
	}
	for _, i := range issues {
		s.ByType[string(i.Type)]++
		s.BySeverity[string(i.Severity)]++
		s.ByStatus[string(i.Status)]++
		if s.Earliest.IsZero() || i.Timestamp.Before(s.Earliest) {
			s.Earliest = i.Timestamp
		}
		if i.Timestamp.After(s.Latest) {
			s.Latest = i.Timestamp
		}
	}
	return s
}

func groupBy(issues []*types.FeedbackIssue, key func(*types.FeedbackIssue) string) map[string][]*types.FeedbackIssue {
	groups := make(map[string][]*types.FeedbackIssue)
	for _, i := range issues {
		if k := key(i); k != "" {
			groups[k] = append(groups[k], i)
		}
	}
	return groups
}

func detectClusters(issues []*types.FeedbackIssue, byAPI, byExample map[string][]*types.FeedbackIssue) []Cluster {
	var clusters []Cluster

	for _, id := range sortedGroupKeys(byAPI) {
		group := byAPI[id]
		if len(group) < frequentThreshold {
			continue
		}
		clusters = append(clusters, Cluster{
			Pattern:     PatternFrequentAPI,
			Description: fmt.Sprintf("API %q has %d reported issues", id, len(group)),
			Count:       len(group),
			APIID:       id,
			SampleIDs:   sampleIDs(group),
		})
	}

	for _, id := range sortedGroupKeys(byExample) {
		group := byExample[id]
		if len(group) < frequentThreshold {
			continue
		}
		clusters = append(clusters, Cluster{
			Pattern:     PatternFrequentExample,
			Description: fmt.Sprintf("example %q has %d reported issues", id, len(group)),
			Count:       len(group),
			ExampleID:   id,
			SampleIDs:   sampleIDs(group),
		})
	}

	byType := make(map[types.IssueType][]*types.FeedbackIssue)
	for _, i := range issues {
		byType[i.Type] = append(byType[i.Type], i)
	}
	typeKeys := make([]string, 0, len(byType))
	for t := range byType {
		typeKeys = append(typeKeys, string(t))
	}
	sort.Strings(typeKeys)
	for _, t := range typeKeys {
		group := byType[types.IssueType(t)]
		if len(group) < typeThreshold {
			continue
		}
		clusters = append(clusters, Cluster{
			Pattern:     PatternTypeCluster,
			Description: fmt.Sprintf("%d issues of type %q reported", len(group), t),
			Count:       len(group),
			IssueType:   t,
			SampleIDs:   sampleIDs(group),
		})
	}

	var critical []*types.FeedbackIssue
	for _, i := range issues {
		if i.Severity == types.SeverityCritical {
			critical = append(critical, i)
		}
	}
	if len(critical) >= criticalThreshold {
		clusters = append(clusters, Cluster{
			Pattern:     PatternCriticalCluster,
			Description: fmt.Sprintf("%d critical issues need immediate attention", len(critical)),
			Count:       len(critical),
			SampleIDs:   sampleIDs(critical),
		})
	}

	return clusters
}

// prioritize scores every issue as severity weight + type weight + a
// frequency boost of min(extra reports on the same api/example id, 3),
// then orders by score descending with the most recent report first
// among ties.
func prioritize(issues []*types.FeedbackIssue, byAPI, byExample map[string][]*types.FeedbackIssue) []PrioritizedIssue {
	scored := make([]PrioritizedIssue, 0, len(issues))
	for _, i := range issues {
		extra := 0
		if i.APIID != "" {
			extra += len(byAPI[i.APIID]) - 1
		}
		if i.ExampleID != "" {
			extra += len(byExample[i.ExampleID]) - 1
		}
		boost := extra
		if boost > maxFrequencyBoost {
			boost = maxFrequencyBoost
		}

		sw := severityWeights[i.Severity]
		tw := typeWeights[i.Type]
		scored = append(scored, PrioritizedIssue{
			Issue:          i,
			Priority:       sw + tw + boost,
			SeverityWeight: sw,
			TypeWeight:     tw,
			FrequencyBoost: boost,
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Priority != scored[b].Priority {
			return scored[a].Priority > scored[b].Priority
		}
		return scored[a].Issue.Timestamp.After(scored[b].Issue.Timestamp)
	})

	if len(scored) > maxPriorityIssues {
		scored = scored[:maxPriorityIssues]
	}
	return scored
}

func recommend(s Summary, clusters []Cluster, issues []*types.FeedbackIssue, kb *types.KnowledgeBase) []string {
	var recs []string

	if n := s.BySeverity[string(types.SeverityCritical)]; n > 0 {
		recs = append(recs, fmt.Sprintf("URGENT: %d critical issue(s) need immediate attention", n))
	}
	if n := s.BySeverity[string(types.SeverityHigh)]; n >= 3 {
		recs = append(recs, fmt.Sprintf("%d high-severity issues should be addressed soon", n))
	}
	if n := s.ByType[string(types.IssueBrokenExample)]; n >= 2 {
		recs = append(recs, fmt.Sprintf("%d broken examples reported, re-run example validation", n))
	}
	if n := s.ByType[string(types.IssueIncorrectSignature)]; n >= 2 {
		recs = append(recs, fmt.Sprintf("%d incorrect signatures reported, re-run signature extraction", n))
	}
	if n := s.ByType[string(types.IssueUnclearDocs)]; n >= 3 {
		recs = append(recs, fmt.Sprintf("%d clarity issues reported, review documentation structure", n))
	}

	for _, c := range clusters {
		if c.Pattern == PatternFrequentAPI {
			recs = append(recs, fmt.Sprintf("API %q has %d reports, review its example and signature", c.APIID, c.Count))
			break
		}
	}

	if kb != nil {
		unknown := unknownIDs(issues, kb)
		if len(unknown) > 0 {
			recs = append(recs, fmt.Sprintf("%d report(s) reference ids not in the catalog: %v", len(unknown), unknown))
		}
	}

	if s.TotalIssues == 0 {
		recs = append(recs, "no issues reported")
	}
	return recs
}

// unknownIDs lists referenced api/example ids absent from every language
// in the catalog.
func unknownIDs(issues []*types.FeedbackIssue, kb *types.KnowledgeBase) []string {
	seen := make(map[string]struct{})
	var unknown []string
	for _, i := range issues {
		if i.APIID != "" && !idInAnyLanguage(kb.APIs, i.APIID) {
			if _, ok := seen[i.APIID]; !ok {
				seen[i.APIID] = struct{}{}
				unknown = append(unknown, i.APIID)
			}
		}
		if i.ExampleID != "" && !idInAnyLanguage(kb.Examples, i.ExampleID) {
			if _, ok := seen[i.ExampleID]; !ok {
				seen[i.ExampleID] = struct{}{}
				unknown = append(unknown, i.ExampleID)
			}
		}
	}
	sort.Strings(unknown)
	return unknown
}

func idInAnyLanguage[T any](m map[string]map[string]T, id string) bool {
	for _, byID := range m {
		if _, ok := byID[id]; ok {
			return true
		}
	}
	return false
}

func sampleIDs(group []*types.FeedbackIssue) []string {
	n := len(group)
	if n > maxClusterSamples {
		n = maxClusterSamples
	}
	ids := make([]string, 0, n)
	for _, i := range group[:n] {
		ids = append(ids, i.IssueID)
	}
	return ids
}

func sortedGroupKeys(m map[string][]*types.FeedbackIssue) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalReport renders a report as indented JSON for external tooling.
func MarshalReport(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
