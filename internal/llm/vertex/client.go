// Package vertex completes prompts with Gemini on Vertex AI.
package vertex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"

	"github.com/kochan17/recruitment-app/internal/common"
)

const ProviderName = "vertex"

type Config struct {
	ProjectID   string
	Region      string
	Model       string // e.g., "gemini-1.5-pro"
	Temperature float32
	Timeout     time.Duration
}

type Client struct {
	cfg    Config
	base   *genai.Client
	logger *slog.Logger
}

// NewClient dials Vertex AI using application default credentials.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex: projectID and region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	base, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	return &Client{cfg: cfg, base: base, logger: logger}, nil
}

func (c *Client) Close() error {
	if c.base != nil {
		return c.base.Close()
	}
	return nil
}

// Complete implements llm.Completer. A model handle is built per call so
// concurrent callers never share generation settings.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	rid := common.RequestIDFromContext(ctx)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	model := c.base.GenerativeModel(c.cfg.Model)
	model.SetTemperature(c.cfg.Temperature)
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("llm.complete.error",
			"req_id", rid, "provider", ProviderName, "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewUpstreamError(ProviderName, 0, err)
	}

	reply, parts, err := replyText(resp)
	if err != nil {
		return "", common.NewUpstreamError(ProviderName, 0, err)
	}
	if parts > 1 {
		c.logger.Warn("llm.complete.multi_part", "req_id", rid, "parts", parts)
	}
	c.logger.Info("llm.complete.ok",
		"req_id", rid,
		"provider", ProviderName,
		"model", c.cfg.Model,
		"reply_len", len(reply),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return reply, nil
}

// replyText concatenates the text parts of the first candidate.
func replyText(resp *genai.GenerateContentResponse) (string, int, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", 0, errors.New("empty response from model")
	}
	var b strings.Builder
	n := 0
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
			n++
		}
	}
	if n == 0 {
		return "", 0, errors.New("response carried no text parts")
	}
	return strings.TrimSpace(b.String()), n, nil
}
