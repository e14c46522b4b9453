// Package provider builds the configured llm.Completer.
package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/llm"
	"github.com/kochan17/recruitment-app/internal/llm/ollama"
	"github.com/kochan17/recruitment-app/internal/llm/openai"
	"github.com/kochan17/recruitment-app/internal/llm/vertex"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the completer selected by cfg.Provider and a closer that
// releases its resources. The closer is never nil.
func New(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (llm.Completer, io.Closer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("provider", cfg.Provider)

	switch cfg.Provider {
	case common.ProviderOpenAI, "":
		c := openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
		return c, nopCloser{}, nil

	case common.ProviderOllama:
		c, err := ollama.NewClient(ollama.Config{
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: float64(cfg.Temperature),
			Timeout:     cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return c, nopCloser{}, nil

	case common.ProviderVertex:
		c, err := vertex.NewClient(ctx, vertex.Config{
			ProjectID:   cfg.VertexProject,
			Region:      cfg.VertexRegion,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, nopCloser{}, err
		}
		return c, c, nil
	}
	return nil, nopCloser{}, common.NewAppError("CONFIG_ERROR", fmt.Sprintf("unknown llm provider %q", cfg.Provider), common.ErrInvalidInput)
}
