package embedder

import (
	"fmt"
	"strings"
)

// Config holds embedder configuration.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	CacheSize int
}

// New creates an embedder from explicit configuration. Provider "none"
// (or empty) returns ErrCapabilityDisabled; callers treat that as the
// vector capability being unavailable, not as a fatal error.
func New(cfg Config) (Embedder, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	switch strings.ToLower(cfg.Provider) {
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cache)
	case ProviderLocal:
		return NewLocalProvider(cache)
	case ProviderNone, "":
		return nil, ErrCapabilityDisabled
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedModel, cfg.Provider)
	}
}
