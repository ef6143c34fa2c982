package types

import "time"

// Parameter describes a single function or method parameter.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Returns describes an API's return value.
type Returns struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// EntrySource records where an API definition came from.
type EntrySource string

const (
	SourceIntrospection EntrySource = "introspection"
	SourceDocumentation EntrySource = "documentation"
	SourceHybrid        EntrySource = "hybrid"
)

// APIEntry is a single API catalog record. Entries are immutable after
// catalog build; a new generation run supersedes them wholesale.
type APIEntry struct {
	APIID       string      `json:"api_id"` // Fully qualified name, unique per language
	Language    string      `json:"language"`
	Signature   string      `json:"signature"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters,omitempty"`
	Returns     *Returns    `json:"returns,omitempty"`

	// ExampleIDs references ExampleEntry records that use this API
	ExampleIDs []string `json:"examples,omitempty"`

	ImportanceScore float64     `json:"importance_score"` // 0.0-1.0 ranking bias
	Tags            []string    `json:"tags,omitempty"`
	RelatedAPIs     []string    `json:"related_apis,omitempty"`
	SearchKeywords  []string    `json:"search_keywords,omitempty"`
	Source          EntrySource `json:"source,omitempty"`
}

// Complexity is the difficulty tier of an example.
type Complexity string

const (
	ComplexityBeginner     Complexity = "beginner"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// ValidComplexity reports whether c is a known complexity tier.
func ValidComplexity(c string) bool {
	switch Complexity(c) {
	case ComplexityBeginner, ComplexityIntermediate, ComplexityAdvanced:
		return true
	}
	return false
}

// ExampleEntry is a code example record tied to the APIs it exercises.
// Same lifecycle as APIEntry: immutable after build.
type ExampleEntry struct {
	ExampleID string     `json:"example_id"` // Unique per language
	Title     string     `json:"title"`
	Code      string     `json:"code"`
	Language  string     `json:"language"`
	APIsUsed  []string   `json:"apis_used,omitempty"`
	UseCase   string     `json:"use_case,omitempty"`
	Complex   Complexity `json:"complexity"`

	Tags           []string `json:"tags,omitempty"`
	Prerequisites  []string `json:"prerequisites,omitempty"`
	ExpectedOutput string   `json:"expected_output,omitempty"`
	Validated      bool     `json:"validated"`

	// Source location in the documentation this example was extracted from
	SourceFile string `json:"source_file,omitempty"`
	LineNumber int    `json:"line_number,omitempty"`
}

// LibraryOverview is the high-level library record, singleton per snapshot.
type LibraryOverview struct {
	Name              string   `json:"name"`
	Version           string   `json:"version"`
	Languages         []string `json:"languages"`
	Domain            string   `json:"domain,omitempty"`
	Description       string   `json:"description"`
	KeyConcepts       []string `json:"key_concepts,omitempty"`
	QuickstartSummary string   `json:"quickstart_summary,omitempty"`
}

// BuildMetadata records how and when a knowledge base snapshot was built.
type BuildMetadata struct {
	BuiltAt       time.Time `json:"built_at"`
	TotalAPIs     int       `json:"total_apis"`
	TotalExamples int       `json:"total_examples"`
	Languages     []string  `json:"languages"`
}

// KnowledgeBase is the aggregate catalog snapshot: one overview plus flat
// per-language maps keyed by string id. References between APIs and
// examples are id lookups, never pointers, so cross-references cannot form
// ownership cycles. The struct is immutable once built; queries are
// read-only views over it.
type KnowledgeBase struct {
	Overview LibraryOverview                     `json:"library_overview"`
	APIs     map[string]map[string]*APIEntry     `json:"api_catalog"`  // language -> api_id -> entry
	Examples map[string]map[string]*ExampleEntry `json:"examples_db"`  // language -> example_id -> entry
	Metadata BuildMetadata                       `json:"metadata"`
}

// API looks up an API entry by language and id. The second return is false
// when the entry does not exist; absence is an expected outcome, not an
// error.
func (kb *KnowledgeBase) API(language, id string) (*APIEntry, bool) {
	byID, ok := kb.APIs[language]
	if !ok {
		return nil, false
	}
	entry, ok := byID[id]
	return entry, ok
}

// Example looks up an example entry by language and id.
func (kb *KnowledgeBase) Example(language, id string) (*ExampleEntry, bool) {
	byID, ok := kb.Examples[language]
	if !ok {
		return nil, false
	}
	entry, ok := byID[id]
	return entry, ok
}

// CountsByLanguage returns per-language API and example counts for the
// overview statistics.
func (kb *KnowledgeBase) CountsByLanguage() (apis map[string]int, examples map[string]int) {
	apis = make(map[string]int, len(kb.APIs))
	examples = make(map[string]int, len(kb.Examples))
	for lang, byID := range kb.APIs {
		apis[lang] = len(byID)
	}
	for lang, byID := range kb.Examples {
		examples[lang] = len(byID)
	}
	return apis, examples
}
