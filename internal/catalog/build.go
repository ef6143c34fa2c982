package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/docmentor/docmentor-mcp/internal/scorer"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// Ingestion error kinds. Individual bad records never abort a build; they
// are skipped and listed in the BuildReport.
var (
	ErrDuplicateID     = errors.New("duplicate id")
	ErrMalformedRecord = errors.New("malformed record")
)

// IngestionError describes one skipped record.
type IngestionError struct {
	Kind     error // ErrDuplicateID or ErrMalformedRecord
	Language string
	ID       string
	Reason   string
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("%v (%s/%s): %s", e.Kind, e.Language, e.ID, e.Reason)
}

func (e *IngestionError) Unwrap() error { return e.Kind }

// BuildReport collects everything non-fatal that happened during a build:
// skipped records, unresolved example->API references, and general
// warnings. Consumers decide what to surface.
type BuildReport struct {
	Skipped      []*IngestionError
	Unresolved   []UnresolvedRef
	Warnings     []string
	Duration     time.Duration
	TotalAPIs    int
	TotalExample int
}

// UnresolvedRef records an example referencing an API id missing from the
// catalog. Never silently dropped.
type UnresolvedRef struct {
	Language  string
	ExampleID string
	APIID     string
}

// Build assembles an immutable KnowledgeBase snapshot from ingestion
// records. Duplicate (language, id) pairs and malformed records are
// skipped per-record with the remainder ingested; example->API references
// are resolved here, with misses recorded as warnings rather than errors.
// Entries missing an importance score get one from the deterministic
// scorer.
func Build(entries []*types.APIEntry, examples []*types.ExampleEntry, overview types.LibraryOverview) (*types.KnowledgeBase, *BuildReport, error) {
	start := time.Now()
	report := &BuildReport{}

	kb := &types.KnowledgeBase{
		Overview: overview,
		APIs:     make(map[string]map[string]*types.APIEntry),
		Examples: make(map[string]map[string]*types.ExampleEntry),
	}

	for _, e := range entries {
		if reason := validateAPI(e); reason != "" {
			report.Skipped = append(report.Skipped, &IngestionError{
				Kind: ErrMalformedRecord, Language: e.Language, ID: e.APIID, Reason: reason,
			})
			continue
		}

		byID, ok := kb.APIs[e.Language]
		if !ok {
			byID = make(map[string]*types.APIEntry)
			kb.APIs[e.Language] = byID
		}
		if _, exists := byID[e.APIID]; exists {
			report.Skipped = append(report.Skipped, &IngestionError{
				Kind: ErrDuplicateID, Language: e.Language, ID: e.APIID,
				Reason: "an entry with this id was already ingested",
			})
			continue
		}

		entry := *e // snapshot owns its own copy
		if entry.ImportanceScore == 0 {
			entry.ImportanceScore = scorer.ImportanceForAPI(&entry)
		}
		byID[e.APIID] = &entry
	}

	for _, ex := range examples {
		if reason := validateExample(ex); reason != "" {
			report.Skipped = append(report.Skipped, &IngestionError{
				Kind: ErrMalformedRecord, Language: ex.Language, ID: ex.ExampleID, Reason: reason,
			})
			continue
		}

		byID, ok := kb.Examples[ex.Language]
		if !ok {
			byID = make(map[string]*types.ExampleEntry)
			kb.Examples[ex.Language] = byID
		}
		if _, exists := byID[ex.ExampleID]; exists {
			report.Skipped = append(report.Skipped, &IngestionError{
				Kind: ErrDuplicateID, Language: ex.Language, ID: ex.ExampleID,
				Reason: "an example with this id was already ingested",
			})
			continue
		}

		example := *ex
		byID[ex.ExampleID] = &example

		for _, apiID := range ex.APIsUsed {
			if _, ok := kb.API(ex.Language, apiID); !ok {
				report.Unresolved = append(report.Unresolved, UnresolvedRef{
					Language: ex.Language, ExampleID: ex.ExampleID, APIID: apiID,
				})
			}
		}
	}

	// Back-link examples onto the APIs they exercise.
	linkExamples(kb)

	apis, exampleCounts := kb.CountsByLanguage()
	languages := make([]string, 0, len(apis))
	for lang := range apis {
		languages = append(languages, lang)
	}
	for lang := range exampleCounts {
		if _, ok := apis[lang]; !ok {
			languages = append(languages, lang)
		}
	}
	sort.Strings(languages)

	total := 0
	for _, n := range apis {
		total += n
	}
	totalExamples := 0
	for _, n := range exampleCounts {
		totalExamples += n
	}

	kb.Metadata = types.BuildMetadata{
		BuiltAt:       time.Now().UTC(),
		TotalAPIs:     total,
		TotalExamples: totalExamples,
		Languages:     languages,
	}
	report.TotalAPIs = total
	report.TotalExample = totalExamples
	report.Duration = time.Since(start)

	return kb, report, nil
}

// linkExamples fills each API's ExampleIDs from the examples that declare
// it, keeping ids sorted for reproducible snapshots.
func linkExamples(kb *types.KnowledgeBase) {
	for lang, examples := range kb.Examples {
		for _, ex := range examples {
			for _, apiID := range ex.APIsUsed {
				api, ok := kb.API(lang, apiID)
				if !ok {
					continue
				}
				if !contains(api.ExampleIDs, ex.ExampleID) {
					api.ExampleIDs = append(api.ExampleIDs, ex.ExampleID)
				}
			}
		}
	}
	for _, byID := range kb.APIs {
		for _, api := range byID {
			sort.Strings(api.ExampleIDs)
		}
	}
}

func validateAPI(e *types.APIEntry) string {
	switch {
	case strings.TrimSpace(e.APIID) == "":
		return "api_id is required"
	case strings.TrimSpace(e.Language) == "":
		return "language is required"
	case e.ImportanceScore < 0 || e.ImportanceScore > 1:
		return "importance_score must be in [0, 1]"
	}
	return ""
}

func validateExample(ex *types.ExampleEntry) string {
	switch {
	case strings.TrimSpace(ex.ExampleID) == "":
		return "example_id is required"
	case strings.TrimSpace(ex.Language) == "":
		return "language is required"
	case strings.TrimSpace(ex.Code) == "":
		return "code is required"
	case ex.Complex != "" && !types.ValidComplexity(string(ex.Complex)):
		return "unknown complexity tier"
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
