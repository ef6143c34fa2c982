package embedder

import (
	"context"
	"crypto/sha256"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Provider configuration
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
	ProviderNone   = "none"

	DefaultOpenAIModel = "text-embedding-3-small"

	// OpenAIDimension is the fallback for models not in openAIDimensions.
	OpenAIDimension = 1536
	LocalDimension  = 384

	// Batch limits
	DefaultBatchSize = 50
	MaxBatchSize     = 100

	// Retry configuration
	MaxRetries        = 3
	InitialBackoffMs  = 100
	MaxBackoffMs      = 5000
	BackoffMultiplier = 2.0
)

// OpenAIProvider implements Embedder against the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	cache  *Cache
}

// NewOpenAIProvider creates an OpenAI embedder. The model defaults to
// text-embedding-3-small when empty.
func NewOpenAIProvider(apiKey, model string, cache *Cache) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key not set", ErrCapabilityDisabled)
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		cache:  cache,
	}, nil
}

func (o *OpenAIProvider) Embed(ctx context.Context, req Request) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	hash := ComputeHash(req.Text)
	if o.cache != nil {
		if emb, ok := o.cache.Get(hash); ok {
			return emb, nil
		}
	}

	resp, err := o.EmbedBatch(ctx, BatchRequest{Texts: []string{req.Text}})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embeddings returned", ErrProviderFailed)
	}
	return resp.Embeddings[0], nil
}

func (o *OpenAIProvider) EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}
	if len(req.Texts) > MaxBatchSize {
		return nil, fmt.Errorf("%w: max %d texts allowed", ErrBatchTooLarge, MaxBatchSize)
	}

	config := DefaultRetryConfig()
	embeddings, err := retryWithBackoff(ctx, config, func() ([]*Embedding, error) {
		return o.callAPI(ctx, req.Texts)
	})
	if err != nil {
		return nil, fmt.Errorf("%w after %d retries: %v", ErrProviderFailed, MaxRetries, err)
	}

	for i, emb := range embeddings {
		emb.Hash = ComputeHash(req.Texts[i])
		if o.cache != nil {
			o.cache.Set(emb.Hash, emb)
		}
	}

	return &BatchResponse{
		Embeddings: embeddings,
		Provider:   ProviderOpenAI,
		Model:      o.model,
	}, nil
}

func (o *OpenAIProvider) callAPI(ctx context.Context, texts []string) ([]*Embedding, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(o.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([]*Embedding, len(resp.Data))
	for _, data := range resp.Data {
		vector := make([]float32, len(data.Embedding))
		copy(vector, data.Embedding)
		embeddings[data.Index] = &Embedding{
			Vector:    vector,
			Dimension: len(vector),
			Provider:  ProviderOpenAI,
			Model:     o.model,
		}
	}
	return embeddings, nil
}

// openAIDimensions maps embedding models to their vector dimensions.
var openAIDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

func (o *OpenAIProvider) Dimension() int {
	if dim, ok := openAIDimensions[o.model]; ok {
		return dim
	}
	return OpenAIDimension
}
func (o *OpenAIProvider) Provider() string { return ProviderOpenAI }
func (o *OpenAIProvider) Model() string    { return o.model }
func (o *OpenAIProvider) Close() error     { return nil }

// LocalProvider produces deterministic hash-derived vectors. It exists for
// offline development and tests; the vectors carry no semantic signal but
// are stable for a given text, which is what cache and determinism tests
// need.
type LocalProvider struct {
	model string
	cache *Cache
}

// NewLocalProvider creates the offline embedder.
func NewLocalProvider(cache *Cache) (*LocalProvider, error) {
	return &LocalProvider{model: "local-embeddings", cache: cache}, nil
}

func (l *LocalProvider) Embed(ctx context.Context, req Request) (*Embedding, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash := ComputeHash(req.Text)
	if l.cache != nil {
		if emb, ok := l.cache.Get(hash); ok {
			return emb, nil
		}
	}

	emb := &Embedding{
		Vector:    localVector(req.Text),
		Dimension: LocalDimension,
		Provider:  ProviderLocal,
		Model:     l.model,
		Hash:      hash,
	}
	if l.cache != nil {
		l.cache.Set(hash, emb)
	}
	return emb, nil
}

func (l *LocalProvider) EmbedBatch(ctx context.Context, req BatchRequest) (*BatchResponse, error) {
	if err := ValidateBatchRequest(req); err != nil {
		return nil, err
	}

	embeddings := make([]*Embedding, len(req.Texts))
	for i, text := range req.Texts {
		emb, err := l.Embed(ctx, Request{Text: text})
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return &BatchResponse{
		Embeddings: embeddings,
		Provider:   ProviderLocal,
		Model:      l.model,
	}, nil
}

// localVector expands the text's SHA-256 digest into a unit-scaled vector
// by re-hashing with a counter until the dimension is filled.
func localVector(text string) []float32 {
	vector := make([]float32, LocalDimension)
	seed := []byte(text)
	filled := 0
	for counter := byte(0); filled < LocalDimension; counter++ {
		block := sha256.Sum256(append(seed, counter))
		for _, b := range block {
			if filled >= LocalDimension {
				break
			}
			vector[filled] = float32(b)/255.0 - 0.5
			filled++
		}
	}
	return vector
}

func (l *LocalProvider) Dimension() int { return LocalDimension }
func (l *LocalProvider) Provider() string { return ProviderLocal }
func (l *LocalProvider) Model() string    { return l.model }
func (l *LocalProvider) Close() error     { return nil }
