package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Embedding.Provider)
	assert.Equal(t, 1024, cfg.Embedding.CacheSize)
	assert.Equal(t, 10*time.Minute, cfg.Embedding.BuildTimeout)
	assert.Equal(t, 5, cfg.Query.DefaultTopK)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.KnowledgeBase.Dir)
	assert.NotEmpty(t, cfg.Feedback.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCMENTOR_EMBEDDING_PROVIDER", "local")
	t.Setenv("DOCMENTOR_EMBEDDING_BUILD_TIMEOUT", "30s")
	t.Setenv("DOCMENTOR_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Embedding.Provider)
	assert.Equal(t, 30*time.Second, cfg.Embedding.BuildTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmentor.yaml")
	contents := `
knowledge_base:
  dir: /srv/kb
embedding:
  provider: openai
  model: text-embedding-3-large
  build_timeout: 2m
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/kb", cfg.KnowledgeBase.Dir)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", cfg.Embedding.Model)
	assert.Equal(t, 2*time.Minute, cfg.Embedding.BuildTimeout)

	// Defaults still apply for keys the file does not set.
	assert.Equal(t, 5, cfg.Query.DefaultTopK)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
