package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/llm/ollama"
	"github.com/kochan17/recruitment-app/internal/llm/openai"
)

func TestNew_OpenAI(t *testing.T) {
	c, closer, err := New(context.Background(), common.LLMConfig{Provider: common.ProviderOpenAI, APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, c)
	assert.NoError(t, closer.Close())
}

func TestNew_Ollama(t *testing.T) {
	c, closer, err := New(context.Background(), common.LLMConfig{Provider: common.ProviderOllama}, nil)
	require.NoError(t, err)
	assert.IsType(t, &ollama.Client{}, c)
	assert.NoError(t, closer.Close())
}

func TestNew_VertexNeedsProject(t *testing.T) {
	_, closer, err := New(context.Background(), common.LLMConfig{Provider: common.ProviderVertex, VertexRegion: "us-central1"}, nil)
	assert.Error(t, err)
	assert.NotNil(t, closer)
}

func TestNew_Unknown(t *testing.T) {
	_, _, err := New(context.Background(), common.LLMConfig{Provider: "bard"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
