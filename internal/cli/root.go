package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docmentor/docmentor-mcp/internal/config"
	"github.com/docmentor/docmentor-mcp/internal/embedder"
	"github.com/docmentor/docmentor-mcp/internal/vector"
)

// Build information, injected at link time.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var (
	configPath string
	kbDir      string
)

var rootCmd = &cobra.Command{
	Use:   "docmentor",
	Short: "Documentation knowledge base MCP server",
	Long: `DocMentor serves a structured documentation knowledge base to AI
assistants over the Model Context Protocol.

It answers API and example queries with hybrid retrieval (TF-IDF keyword
search fused with vector similarity), collects documentation feedback,
and analyzes that feedback into maintainer priorities.`,
	SilenceUsage: true,
}

// Execute runs the CLI. ctx is threaded to every command so signal
// cancellation reaches long-running phases like index builds.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// buildContext bounds the embedding phase of an index build.
func buildContext(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if cfg.Embedding.BuildTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Embedding.BuildTimeout)
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (built %s, sqlite driver %s/%s)",
		Version, BuildTime, vector.BuildMode, vector.DriverName)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./docmentor.yaml, ~/.docmentor/docmentor.yaml)")
	rootCmd.PersistentFlags().StringVar(&kbDir, "kb", "", "knowledge base directory (overrides config)")
}

// loadConfig resolves configuration plus flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if kbDir != "" {
		cfg.KnowledgeBase.Dir = kbDir
	}
	return cfg, nil
}

// newEmbedder builds the configured embedding provider. A disabled
// capability returns a nil embedder, which downstream components treat
// as keyword-only mode.
func newEmbedder(cfg *config.Config, log *zap.Logger) (embedder.Embedder, error) {
	emb, err := embedder.New(embedder.Config{
		Provider:  cfg.Embedding.Provider,
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		CacheSize: cfg.Embedding.CacheSize,
	})
	if err != nil {
		if errors.Is(err, embedder.ErrCapabilityDisabled) {
			log.Info("embedding provider disabled, running keyword-only")
			return nil, nil
		}
		return nil, err
	}
	log.Info("embedding provider ready",
		zap.String("provider", emb.Provider()),
		zap.String("model", emb.Model()))
	return emb, nil
}
