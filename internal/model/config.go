package model

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the complete cimbrief configuration.
// It is built once at startup and passed into every component.
type Config struct {
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Pipeline     PipelineConfig     `yaml:"pipeline" mapstructure:"pipeline"`
	Ingest       IngestConfig       `yaml:"ingest" mapstructure:"ingest"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the language-model collaborator
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider" validate:"oneof=openai anthropic claude gemini ollama"`
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout" validate:"gte=1"` // seconds per request
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature" validate:"gte=0,lte=2"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// RateLimitingConfig throttles outgoing model requests
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size" validate:"gte=1"`
}

// CacheConfig controls the model response cache
type CacheConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir       string `yaml:"dir" mapstructure:"dir"`
	MemoryTTL int    `yaml:"memory_ttl" mapstructure:"memory_ttl" validate:"gte=0"` // minutes
	DiskTTL   int    `yaml:"disk_ttl" mapstructure:"disk_ttl" validate:"gte=0"`     // hours
}

// PipelineConfig controls stage execution
type PipelineConfig struct {
	Parallelism int    `yaml:"parallelism" mapstructure:"parallelism" validate:"gte=1,lte=16"`
	PayloadPath string `yaml:"payload_path" mapstructure:"payload_path" validate:"required"`
}

// IngestConfig bounds document ingestion
type IngestConfig struct {
	MaxBytes      int64 `yaml:"max_bytes" mapstructure:"max_bytes" validate:"gt=0"`
	MaxInputChars int   `yaml:"max_input_chars" mapstructure:"max_input_chars" validate:"gt=0"`
}

// OutputConfig controls user-facing output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4.1",
			Timeout:     60,
			MaxRetries:  2,
			Temperature: 0,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.cimbrief/cache by the CLI
			MemoryTTL: 30,
			DiskTTL:   24,
		},
		Pipeline: PipelineConfig{
			Parallelism: 4,
			PayloadPath: "pptx_data.json",
		},
		Ingest: IngestConfig{
			MaxBytes:      20 << 20,
			MaxInputChars: 100000,
		},
	}
}

// RequestTimeout returns the per-request timeout as a duration
func (c LLMConfig) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
