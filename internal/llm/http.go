package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kochan17/recruitment-app/internal/common"
)

// maxErrorBody bounds how much of a failed response ends up in the error text.
const maxErrorBody = 512

// SendJSON posts body as JSON to url and returns the raw response body.
// Callers decide the URL and headers. Transport failures and non-2xx statuses
// come back as *common.UpstreamServiceError tagged with provider.
func SendJSON(ctx context.Context, client *http.Client, url string, body any, headers map[string]string, provider string, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	reqID := common.RequestIDFromContext(ctx)
	start := time.Now()

	bs, err := json.Marshal(body)
	if err != nil {
		logger.Error("llm.http.encode_error", "req_id", reqID, "error", err)
		return nil, fmt.Errorf("encode json: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		logger.Error("llm.http.build_request_error", "req_id", reqID, "error", err)
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	logger.Debug("llm.http.request",
		"req_id", reqID,
		"provider", provider,
		"url", url,
		"content_length", len(bs),
	)

	resp, err := client.Do(req)
	if err != nil {
		logger.Error("llm.http.send_error", "req_id", reqID, "provider", provider, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, common.NewUpstreamError(provider, 0, err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			logger.Warn("llm.http.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, readErr := io.ReadAll(resp.Body)

	logger.Info("llm.http.response",
		"req_id", reqID,
		"provider", provider,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, common.NewUpstreamError(provider, resp.StatusCode, errors.New(snippet(raw)))
	}
	if readErr != nil {
		return nil, common.NewUpstreamError(provider, resp.StatusCode, fmt.Errorf("read body: %w", readErr))
	}
	return raw, nil
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	if s == "" {
		s = "empty body"
	}
	return s
}
