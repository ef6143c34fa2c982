package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docmentor/docmentor-mcp/pkg/types"
)

// On-disk knowledge base layout produced by the documentation generator:
//
//	knowledge_base/
//	├── index.json               master index with file references
//	├── library_overview.json    high-level library record
//	├── api_catalog/<lang>/<api_id>.json
//	└── examples_db/<lang>/<example_id>.json
const (
	indexFile    = "index.json"
	overviewFile = "library_overview.json"
)

// diskIndex mirrors index.json. Only the file references matter here; the
// inline summaries exist for cheap lookups by other consumers.
type diskIndex struct {
	Library  string                `json:"library"`
	Version  string                `json:"version"`
	APIs     map[string][]indexRef `json:"apis"`
	Examples map[string][]indexRef `json:"examples"`
}

type indexRef struct {
	APIID     string `json:"api_id,omitempty"`
	ExampleID string `json:"example_id,omitempty"`
	File      string `json:"file"`
}

// LoadDir reads a knowledge base directory and builds a snapshot from it.
// index.json and library_overview.json are required; individual entry
// files that are missing or malformed are skipped with a warning so one
// bad record cannot take down the whole catalog.
func LoadDir(dir string) (*types.KnowledgeBase, *BuildReport, error) {
	var idx diskIndex
	if err := readJSON(filepath.Join(dir, indexFile), &idx); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", indexFile, err)
	}

	var overview types.LibraryOverview
	if err := readJSON(filepath.Join(dir, overviewFile), &overview); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", overviewFile, err)
	}

	var warnings []string
	var entries []*types.APIEntry
	var examples []*types.ExampleEntry

	for _, lang := range sortedKeys(idx.APIs) {
		for _, ref := range idx.APIs[lang] {
			var entry types.APIEntry
			if err := readJSON(filepath.Join(dir, filepath.FromSlash(ref.File)), &entry); err != nil {
				warnings = append(warnings, fmt.Sprintf("skipping api %s/%s: %v", lang, ref.APIID, err))
				continue
			}
			if entry.Language == "" {
				entry.Language = lang
			}
			entries = append(entries, &entry)
		}
	}

	for _, lang := range sortedKeys(idx.Examples) {
		for _, ref := range idx.Examples[lang] {
			var example types.ExampleEntry
			if err := readJSON(filepath.Join(dir, filepath.FromSlash(ref.File)), &example); err != nil {
				warnings = append(warnings, fmt.Sprintf("skipping example %s/%s: %v", lang, ref.ExampleID, err))
				continue
			}
			if example.Language == "" {
				example.Language = lang
			}
			examples = append(examples, &example)
		}
	}

	kb, report, err := Build(entries, examples, overview)
	if err != nil {
		return nil, report, err
	}
	report.Warnings = append(warnings, report.Warnings...)
	return kb, report, nil
}

// WriteDir persists a knowledge base in the on-disk layout LoadDir reads.
// Files are written with a stable ordering so repeated writes of the same
// snapshot are byte-identical.
func WriteDir(dir string, kb *types.KnowledgeBase) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	idx := diskIndex{
		Library:  kb.Overview.Name,
		Version:  kb.Overview.Version,
		APIs:     make(map[string][]indexRef),
		Examples: make(map[string][]indexRef),
	}

	for _, lang := range sortedKeys(kb.APIs) {
		langDir := filepath.Join(dir, "api_catalog", lang)
		if err := os.MkdirAll(langDir, 0o755); err != nil {
			return err
		}
		byID := kb.APIs[lang]
		for _, id := range sortedKeys(byID) {
			rel := "api_catalog/" + lang + "/" + safeFilename(id) + ".json"
			if err := writeJSON(filepath.Join(dir, filepath.FromSlash(rel)), byID[id]); err != nil {
				return err
			}
			idx.APIs[lang] = append(idx.APIs[lang], indexRef{APIID: id, File: rel})
		}
	}

	for _, lang := range sortedKeys(kb.Examples) {
		langDir := filepath.Join(dir, "examples_db", lang)
		if err := os.MkdirAll(langDir, 0o755); err != nil {
			return err
		}
		byID := kb.Examples[lang]
		for _, id := range sortedKeys(byID) {
			rel := "examples_db/" + lang + "/" + safeFilename(id) + ".json"
			if err := writeJSON(filepath.Join(dir, filepath.FromSlash(rel)), byID[id]); err != nil {
				return err
			}
			idx.Examples[lang] = append(idx.Examples[lang], indexRef{ExampleID: id, File: rel})
		}
	}

	if err := writeJSON(filepath.Join(dir, overviewFile), kb.Overview); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, indexFile), idx)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// safeFilename maps an id to a filesystem-safe name. Dots are preserved;
// path separators and other suspect characters are replaced.
func safeFilename(id string) string {
	out := make([]rune, 0, len(id))
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
