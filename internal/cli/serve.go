package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docmentor/docmentor-mcp/internal/catalog"
	"github.com/docmentor/docmentor-mcp/internal/config"
	"github.com/docmentor/docmentor-mcp/internal/embedder"
	"github.com/docmentor/docmentor-mcp/internal/feedback"
	"github.com/docmentor/docmentor-mcp/internal/mcp"
	"github.com/docmentor/docmentor-mcp/internal/retriever"
	"github.com/docmentor/docmentor-mcp/internal/vector"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Load the knowledge base, build the search indexes, and serve MCP
tools over stdio.

stdout carries the MCP protocol; logs go to stderr.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docmentor": {
        "command": "/path/to/docmentor",
        "args": ["serve", "--kb", "/path/to/knowledge_base"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	// cmd.Context() is derived from the process signal context, so the
	// whole lifecycle, including the initial index build, is cancellable.
	ctx := cmd.Context()

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
			log.Warn("embedding cache unavailable, embeddings will not persist", zap.Error(err))
		} else {
			defer func() { _ = cache.Close() }()
		}
	}

	store := catalog.NewStore()
	buildCtx, cancelBuild := buildContext(ctx, cfg)
	err = loadAndPublish(buildCtx, store, cfg.KnowledgeBase.Dir, emb, cache, log)
	cancelBuild()
	if err != nil {
		return err
	}

	fb, err := feedback.NewStore(cfg.Feedback.Path)
	if err != nil {
		return err
	}

	retr := retriever.New(store, emb, log)

	srv, err := mcp.NewServer(mcp.Deps{
		Store:     store,
		Retriever: retr,
		Feedback:  fb,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	// Serve returns when stdin closes or the signal context is canceled.
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutting down")
	return nil
}

// loadAndPublish reads the knowledge base directory, builds both
// indexes, and publishes the first snapshot.
func loadAndPublish(ctx context.Context, store *catalog.Store, dir string, emb embedder.Embedder, cache *vector.Cache, log *zap.Logger) error {
	kb, report, err := catalog.LoadDir(dir)
	if err != nil {
		return err
	}
	logReport(log, report)

	snap, warnings, err := catalog.BuildSnapshot(ctx, kb, emb, cache)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn(w)
	}

	store.Publish(snap)
	log.Info("knowledge base published",
		zap.Int("apis", kb.Metadata.TotalAPIs),
		zap.Int("examples", kb.Metadata.TotalExamples),
		zap.Strings("languages", kb.Metadata.Languages),
		zap.Bool("vector_search", snap.Vector.Available()))
	return nil
}

func logReport(log *zap.Logger, report *catalog.BuildReport) {
	for _, skipped := range report.Skipped {
		log.Warn("record skipped", zap.String("reason", skipped.Error()))
	}
	for _, ref := range report.Unresolved {
		log.Warn("example references unknown api",
			zap.String("language", ref.Language),
			zap.String("example_id", ref.ExampleID),
			zap.String("api_id", ref.APIID))
	}
	for _, w := range report.Warnings {
		log.Warn(w)
	}
}
