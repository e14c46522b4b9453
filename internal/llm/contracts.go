package llm

import "context"

// Completer sends one prompt to a language model and returns the reply text.
// Implementations report every failure as a *common.UpstreamServiceError and
// never retry.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// CompleterFunc adapts a plain function to Completer.
type CompleterFunc func(ctx context.Context, prompt string, maxTokens int) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return f(ctx, prompt, maxTokens)
}
