package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "gpt-3.5-turbo", cfg.LLM.Model)
	assert.Equal(t, 500, cfg.LLM.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, VariantScoring, cfg.LLM.Variant)
	assert.Equal(t, PDFImagesRaster, cfg.Extract.PDFImageMode)
	assert.Equal(t, 256, cfg.Face.Size)
	assert.True(t, cfg.Batch.SkipHidden)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: ollama
  model: llama3
  timeout: 10s
  base_url: http://file:11434
extract:
  pdf_image_mode: embedded
  dpi: 200
batch:
  skip_hidden: false
  workers: 3
`)
	t.Setenv("OLLAMA_BASE_URL", "http://env:11434")
	t.Setenv("BATCH_WORKERS", "5")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "http://env:11434", cfg.LLM.BaseURL)
	assert.Equal(t, PDFImagesEmbedded, cfg.Extract.PDFImageMode)
	assert.Equal(t, 200, cfg.Extract.DPI)
	assert.False(t, cfg.Batch.SkipHidden)
	assert.Equal(t, 5, cfg.Batch.Workers)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := writeConfig(t, "llm: [unterminated\n")

	_, err := LoadConfig(path)
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *Config)
		requireLLM bool
		wantErr    string
	}{
		{name: "defaults without llm", mutate: func(c *Config) {}},
		{name: "openai needs key", mutate: func(c *Config) { c.LLM.APIKey = "" }, requireLLM: true, wantErr: "OPENAI_API_KEY"},
		{name: "openai with key", mutate: func(c *Config) { c.LLM.APIKey = "sk-test" }, requireLLM: true},
		{name: "unknown provider", mutate: func(c *Config) { c.LLM.Provider = "bard" }, wantErr: "llm.provider"},
		{name: "unknown variant", mutate: func(c *Config) { c.LLM.Variant = "fancy" }, wantErr: "llm.variant"},
		{name: "bad image mode", mutate: func(c *Config) { c.Extract.PDFImageMode = "magick" }, wantErr: "extract.pdf_image_mode"},
		{name: "vertex needs project", mutate: func(c *Config) { c.LLM.Provider = ProviderVertex }, requireLLM: true, wantErr: "VERTEX_PROJECT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate(tt.requireLLM)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
