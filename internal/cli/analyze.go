package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docmentor/docmentor-mcp/internal/catalog"
	"github.com/docmentor/docmentor-mcp/internal/config"
	"github.com/docmentor/docmentor-mcp/internal/feedback"
	"github.com/docmentor/docmentor-mcp/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the feedback log into maintainer priorities",
	Long: `Read the feedback log, cluster repeated reports, score each issue by
severity, type, and frequency, and print the prioritized report as JSON.

An empty log produces an empty report.`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	fb, err := feedback.NewStore(cfg.Feedback.Path)
	if err != nil {
		return err
	}

	// The catalog is optional here; when present the report flags issue
	// ids that do not resolve against it.
	var kb *types.KnowledgeBase
	if loaded, _, err := catalog.LoadDir(cfg.KnowledgeBase.Dir); err == nil {
		kb = loaded
	}

	report, err := feedback.Analyze(fb, kb)
	if err != nil {
		return err
	}

	data, err := feedback.MarshalReport(report)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(os.Stdout, string(data)); err != nil {
		return err
	}
	return nil
}
