package ollama

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/kochan17/recruitment-app/internal/common"
)

type fakeModel struct {
	reply   string
	err     error
	opts    llms.CallOptions
	prompts []string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, o := range options {
		o(&f.opts)
	}
	for _, m := range messages {
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				f.prompts = append(f.prompts, tc.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestComplete_PassesPromptAndTokens(t *testing.T) {
	m := &fakeModel{reply: " 1. 名前: 花子 \n"}
	c := newWithModel(Config{Model: "mistral"}, m, nil)

	reply, err := c.Complete(context.Background(), "プロンプト", 500)
	require.NoError(t, err)
	assert.Equal(t, "1. 名前: 花子", reply)
	assert.Equal(t, 500, m.opts.MaxTokens)
	assert.Equal(t, []string{"プロンプト"}, m.prompts)
}

func TestComplete_ErrorIsUpstream(t *testing.T) {
	m := &fakeModel{err: errors.New("connection refused")}
	c := newWithModel(Config{}, m, nil)

	_, err := c.Complete(context.Background(), "p", 500)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUpstreamService)

	var up *common.UpstreamServiceError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, ProviderName, up.Provider)
}
