// Package ollama completes prompts against a local Ollama server through langchaingo.
package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcollama "github.com/tmc/langchaingo/llms/ollama"

	"github.com/kochan17/recruitment-app/internal/common"
)

const ProviderName = "ollama"

// Config represents the configuration for the Ollama backend.
type Config struct {
	Model       string
	BaseURL     string // Ollama server URL
	Temperature float64
	Timeout     time.Duration
}

type Client struct {
	cfg    Config
	model  llms.Model
	logger *slog.Logger
}

// NewClient creates a Client with the given configuration.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.Model == "" {
		cfg.Model = "mistral"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	m, err := lcollama.New(lcollama.WithModel(cfg.Model), lcollama.WithServerURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama: %w", err)
	}
	return newWithModel(cfg, m, logger), nil
}

func newWithModel(cfg Config, m llms.Model, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, model: m, logger: logger}
}

// Complete implements llm.Completer.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	opts := []llms.CallOption{llms.WithTemperature(c.cfg.Temperature)}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, c.model, prompt, opts...)
	if err != nil {
		c.logger.Error("llm.complete.error",
			"req_id", rid, "provider", ProviderName, "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewUpstreamError(ProviderName, 0, err)
	}

	reply = strings.TrimSpace(reply)
	c.logger.Info("llm.complete.ok",
		"req_id", rid,
		"provider", ProviderName,
		"model", c.cfg.Model,
		"reply_len", len(reply),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}
