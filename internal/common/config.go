package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LLM providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderVertex = "vertex"
)

// Prompt variants
const (
	VariantScoring = "scoring"
	VariantPlain   = "plain"
)

// PDF image modes
const (
	PDFImagesRaster   = "raster"
	PDFImagesEmbedded = "embedded"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Extract ExtractConfig `yaml:"extract"`
	Face    FaceConfig    `yaml:"face"`
	Batch   BatchConfig   `yaml:"batch"`
}

// LLMConfig holds LLM-related configuration
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	Variant     string        `yaml:"variant"`

	VertexProject string `yaml:"vertex_project"`
	VertexRegion  string `yaml:"vertex_region"`
}

// ExtractConfig holds text and image extraction configuration
type ExtractConfig struct {
	Pdftotext    string `yaml:"pdftotext"`
	Pdftoppm     string `yaml:"pdftoppm"`
	DPI          int    `yaml:"dpi"`
	MaxPages     int    `yaml:"max_pages"`
	PDFImageMode string `yaml:"pdf_image_mode"`
}

// FaceConfig holds face cropping configuration
type FaceConfig struct {
	Size      int    `yaml:"size"`
	Workers   int    `yaml:"workers"`
	OutputDir string `yaml:"output_dir"`
}

// BatchConfig holds batch and watch mode configuration
type BatchConfig struct {
	Workers        int           `yaml:"workers"`
	QueueSize      int           `yaml:"queue_size"`
	RateLimit      float64       `yaml:"rate_limit"` // LLM calls per second across workers
	ProcessTimeout time.Duration `yaml:"process_timeout"`
	SkipHidden     bool          `yaml:"skip_hidden"`
	Debounce       time.Duration `yaml:"debounce"`
}

// DefaultConfigLocations are tried in order when no path is given.
func DefaultConfigLocations() []string {
	return []string{
		"config.yaml",
		"config.yml",
		filepath.Join(os.Getenv("HOME"), ".config/recruitment-app/config.yaml"),
	}
}

// LoadConfig reads an optional YAML file, applies environment overrides, then defaults.
// An empty path searches DefaultConfigLocations; finding nothing is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		for _, loc := range DefaultConfigLocations() {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	cfg := &Config{Batch: BatchConfig{SkipHidden: true}}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, NewAppError("CONFIG_ERROR", "parse "+path, err)
		}
	}

	mergeWithEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func mergeWithEnv(c *Config) {
	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.APIKey = getEnv("OPENAI_API_KEY", c.LLM.APIKey)
	c.LLM.Variant = getEnv("LLM_VARIANT", c.LLM.Variant)
	c.LLM.Temperature = getEnvAsFloat32("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Timeout = getEnvAsDuration("LLM_TIMEOUT", c.LLM.Timeout)
	c.LLM.VertexProject = getEnv("VERTEX_PROJECT", c.LLM.VertexProject)
	c.LLM.VertexRegion = getEnv("VERTEX_REGION", c.LLM.VertexRegion)
	switch c.LLM.Provider {
	case ProviderOllama:
		c.LLM.BaseURL = getEnv("OLLAMA_BASE_URL", c.LLM.BaseURL)
	case ProviderOpenAI, "":
		c.LLM.BaseURL = getEnv("OPENAI_BASE_URL", c.LLM.BaseURL)
	}

	c.Extract.Pdftotext = getEnv("PDFTOTEXT_BIN", c.Extract.Pdftotext)
	c.Extract.Pdftoppm = getEnv("PDFTOPPM_BIN", c.Extract.Pdftoppm)
	c.Extract.DPI = getEnvAsInt("PDF_DPI", c.Extract.DPI)
	c.Extract.MaxPages = getEnvAsInt("PDF_MAX_PAGES", c.Extract.MaxPages)
	c.Extract.PDFImageMode = getEnv("PDF_IMAGE_MODE", c.Extract.PDFImageMode)

	c.Face.Size = getEnvAsInt("FACE_SIZE", c.Face.Size)
	c.Face.Workers = getEnvAsInt("FACE_WORKERS", c.Face.Workers)
	c.Face.OutputDir = getEnv("FACE_OUTPUT_DIR", c.Face.OutputDir)

	c.Batch.Workers = getEnvAsInt("BATCH_WORKERS", c.Batch.Workers)
	c.Batch.RateLimit = getEnvAsFloat64("BATCH_RATE_LIMIT", c.Batch.RateLimit)
	c.Batch.ProcessTimeout = getEnvAsDuration("BATCH_PROCESS_TIMEOUT", c.Batch.ProcessTimeout)
}

func applyDefaults(c *Config) {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Model == "" {
		switch c.LLM.Provider {
		case ProviderOllama:
			c.LLM.Model = "mistral"
		case ProviderVertex:
			c.LLM.Model = "gemini-1.5-pro"
		default:
			c.LLM.Model = "gpt-3.5-turbo"
		}
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.Timeout <= 0 {
		c.LLM.Timeout = 30 * time.Second
	}
	if c.LLM.Variant == "" {
		c.LLM.Variant = VariantScoring
	}
	if c.LLM.VertexRegion == "" {
		c.LLM.VertexRegion = "us-central1"
	}

	if c.Extract.Pdftotext == "" {
		c.Extract.Pdftotext = "pdftotext"
	}
	if c.Extract.Pdftoppm == "" {
		c.Extract.Pdftoppm = "pdftoppm"
	}
	if c.Extract.DPI <= 0 {
		c.Extract.DPI = 150
	}
	if c.Extract.PDFImageMode == "" {
		c.Extract.PDFImageMode = PDFImagesRaster
	}

	if c.Face.Size <= 0 {
		c.Face.Size = 256
	}
	if c.Face.Workers <= 0 {
		c.Face.Workers = 4
	}

	if c.Batch.Workers <= 0 {
		c.Batch.Workers = 2
	}
	if c.Batch.QueueSize <= 0 {
		c.Batch.QueueSize = 64
	}
	if c.Batch.RateLimit <= 0 {
		c.Batch.RateLimit = 1
	}
	if c.Batch.ProcessTimeout <= 0 {
		c.Batch.ProcessTimeout = 3 * time.Minute
	}
	if c.Batch.Debounce <= 0 {
		c.Batch.Debounce = 500 * time.Millisecond
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration. requireLLM adds the
// provider credentials checks needed before an analysis call.
func (c *Config) Validate(requireLLM bool) error {
	v := NewValidator().
		Field("llm.provider", c.LLM.Provider, OneOf(ProviderOpenAI, ProviderOllama, ProviderVertex)).
		Field("llm.variant", c.LLM.Variant, OneOf(VariantScoring, VariantPlain)).
		Field("llm.max_tokens", c.LLM.MaxTokens, IntRange(1, 4096)).
		Field("llm.timeout", c.LLM.Timeout, Positive).
		Field("extract.pdf_image_mode", c.Extract.PDFImageMode, OneOf(PDFImagesRaster, PDFImagesEmbedded)).
		Field("extract.dpi", c.Extract.DPI, IntRange(36, 1200)).
		Field("face.size", c.Face.Size, Positive).
		Field("batch.rate_limit", c.Batch.RateLimit, Positive)

	if requireLLM {
		switch c.LLM.Provider {
		case ProviderOpenAI:
			v.Field("llm.api_key (OPENAI_API_KEY)", c.LLM.APIKey, Required)
		case ProviderVertex:
			v.Field("llm.vertex_project (VERTEX_PROJECT)", c.LLM.VertexProject, Required)
		}
	}

	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
