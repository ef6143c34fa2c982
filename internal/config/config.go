package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration. Every key can come from the
// optional YAML config file or from a DOCMENTOR_* environment variable
// (dots replaced by underscores, e.g. DOCMENTOR_EMBEDDING_API_KEY).
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `mapstructure:"knowledge_base"`
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	Feedback      FeedbackConfig      `mapstructure:"feedback"`
	Query         QueryConfig         `mapstructure:"query"`
	Logging       LoggingConfig       `mapstructure:"logging"`
}

type KnowledgeBaseConfig struct {
	Dir string `mapstructure:"dir"`
}

type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"` // openai, local, none
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	CacheDB   string `mapstructure:"cache_db"`
	CacheSize int    `mapstructure:"cache_size"`

	// BuildTimeout bounds the embedding phase of an index build. The
	// build degrades or fails when it expires; it never runs unbounded.
	BuildTimeout time.Duration `mapstructure:"build_timeout"`
}

type FeedbackConfig struct {
	Path string `mapstructure:"path"`
}

type QueryConfig struct {
	DefaultTopK int `mapstructure:"default_top_k"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Load reads configuration from configPath (or the default search paths
// when empty) and the environment. A missing config file is fine; the
// defaults target ~/.docmentor.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("docmentor")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".docmentor"))
		}
	}

	v.SetEnvPrefix("DOCMENTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	base := defaultBaseDir()

	v.SetDefault("knowledge_base.dir", filepath.Join(base, "knowledge_base"))

	v.SetDefault("embedding.provider", "none")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.cache_db", filepath.Join(base, "embeddings.db"))
	v.SetDefault("embedding.cache_size", 1024)
	v.SetDefault("embedding.build_timeout", "10m")

	v.SetDefault("feedback.path", filepath.Join(base, "feedback.jsonl"))

	v.SetDefault("query.default_top_k", 5)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func defaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docmentor"
	}
	return filepath.Join(home, ".docmentor")
}
