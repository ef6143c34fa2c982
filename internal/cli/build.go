package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docmentor/docmentor-mcp/internal/catalog"
	"github.com/docmentor/docmentor-mcp/internal/config"
	"github.com/docmentor/docmentor-mcp/internal/scorer"
	"github.com/docmentor/docmentor-mcp/internal/vector"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the search indexes and report catalog health",
	Long: `Load the knowledge base, validate every record, compute embeddings
(warming the persistent cache), and print an ingestion and coverage
report as JSON.

Run this after regenerating the knowledge base so the first serve does
not pay the embedding cost.`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	kb, report, err := catalog.LoadDir(cfg.KnowledgeBase.Dir)
	if err != nil {
		return err
	}
	logReport(log, report)

	emb, err := newEmbedder(cfg, log)
	if err != nil {
		return err
	}
	if emb != nil {
		defer func() { _ = emb.Close() }()
	}

	var cache *vector.Cache
	if emb != nil {
		cache, err = vector.OpenCache(cfg.Embedding.CacheDB)
		if err != nil {
			log.Warn("embedding cache unavailable", zap.Error(err))
		} else {
			defer func() { _ = cache.Close() }()
		}
	}

	// The embedding phase is bounded; cmd.Context() is already derived
	// from the process signal context.
	ctx, cancel := buildContext(cmd.Context(), cfg)
	defer cancel()

	snap, warnings, err := catalog.BuildSnapshot(ctx, kb, emb, cache)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	out := map[string]interface{}{
		"total_apis":     report.TotalAPIs,
		"total_examples": report.TotalExample,
		"skipped":        len(report.Skipped),
		"unresolved":     len(report.Unresolved),
		"duration_ms":    report.Duration.Milliseconds(),
		"vector_search":  snap.Vector.Available(),
		"coverage":       coverageMetrics(kb),
	}
	if cache != nil {
		stats := cache.Stats()
		out["embedding_cache"] = map[string]interface{}{
			"hits":   stats.Hits,
			"misses": stats.Misses,
			"writes": stats.Writes,
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// coverageMetrics classifies every API by the documentation evidence the
// catalog itself carries: a non-empty description counts as a dedicated
// section, linked examples as example usage, and a bare signature as a
// mention.
func coverageMetrics(kb *types.KnowledgeBase) scorer.CoverageMetrics {
	var tiers []scorer.Tier
	for _, byID := range kb.APIs {
		for _, api := range byID {
			tiers = append(tiers, scorer.CoverageTier(scorer.Evidence{
				Mentioned:           api.Signature != "",
				AppearsInExamples:   len(api.ExampleIDs) > 0,
				HasDedicatedSection: api.Description != "",
			}))
		}
	}
	return scorer.ComputeMetrics(tiers)
}
