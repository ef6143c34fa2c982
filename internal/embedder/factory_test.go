package embedder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProviderSelection(t *testing.T) {
	emb, err := New(Config{Provider: "local"})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())

	_, err = New(Config{Provider: "none"})
	assert.ErrorIs(t, err, ErrCapabilityDisabled)

	_, err = New(Config{})
	assert.ErrorIs(t, err, ErrCapabilityDisabled)

	_, err = New(Config{Provider: "cohere"})
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestNew_OpenAIRequiresKey(t *testing.T) {
	_, err := New(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrCapabilityDisabled)

	emb, err := New(Config{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultOpenAIModel, emb.Model())
	assert.Equal(t, OpenAIDimension, emb.Dimension())
}

func TestOpenAI_DimensionTracksModel(t *testing.T) {
	large, err := New(Config{Provider: "openai", APIKey: "sk-test", Model: "text-embedding-3-large"})
	require.NoError(t, err)
	assert.Equal(t, 3072, large.Dimension())

	ada, err := New(Config{Provider: "openai", APIKey: "sk-test", Model: "text-embedding-ada-002"})
	require.NoError(t, err)
	assert.Equal(t, 1536, ada.Dimension())

	// Unknown models fall back to the small-model dimension.
	unknown, err := New(Config{Provider: "openai", APIKey: "sk-test", Model: "text-embedding-4"})
	require.NoError(t, err)
	assert.Equal(t, OpenAIDimension, unknown.Dimension())
}
