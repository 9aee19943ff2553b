// Package config holds the batch orchestrator's configuration surface.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cormorant-labs/batchllm/pkg/models"
)

// Config is the root configuration object, assembled by LoadConfig from a
// default YAML, an optional user YAML overlay, and environment overrides.
type Config struct {
	// WorkingDir holds request/response/journal files for a run.
	WorkingDir string `mapstructure:"working_dir" yaml:"working_dir"`
	// CacheDir holds the local result cache keyed by parse_func_hash.
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir"`

	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Batch   BatchConfig   `mapstructure:"batch" yaml:"batch"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	validated bool
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level" yaml:"level"`
	Format    string `mapstructure:"format" yaml:"format"`
	AddSource bool   `mapstructure:"add_source" yaml:"add_source"`
}

// BatchConfig holds the orchestrator's own tunables (spec §6).
type BatchConfig struct {
	// BatchSize is the max requests per batch file; MUST be <= 50000.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	// CheckInterval is the seconds between poll cycles.
	CheckInterval int `mapstructure:"check_interval" yaml:"check_interval"`
	// Concurrency bounds simultaneous provider calls.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
	// CompletionWindow is the provider's completion window, e.g. "24h".
	CompletionWindow string `mapstructure:"completion_window" yaml:"completion_window"`
	// Endpoint is the batch endpoint path, e.g. "/v1/chat/completions".
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// DeleteSuccessfulBatchFiles deletes input+output files after a
	// successful download.
	DeleteSuccessfulBatchFiles bool `mapstructure:"delete_successful_batch_files" yaml:"delete_successful_batch_files"`
	// DeleteFailedBatchFiles deletes input+error files after a terminal
	// non-success.
	DeleteFailedBatchFiles bool `mapstructure:"delete_failed_batch_files" yaml:"delete_failed_batch_files"`
	// BatchDiscount multiplies the cost oracle's unit cost (default 0.5,
	// reflecting the provider's batch discount). Kept configurable rather
	// than hardcoded since it may not hold for every model.
	BatchDiscount float64 `mapstructure:"batch_discount" yaml:"batch_discount"`
}

const (
	maxBatchRequests = 50_000
	maxBatchBytes    = 200 * 1024 * 1024
)

// Validate validates the Batch configuration and fills in defaults.
func (bc *BatchConfig) Validate() error {
	if bc.BatchSize <= 0 {
		bc.BatchSize = maxBatchRequests
	}
	if bc.BatchSize > maxBatchRequests {
		return fmt.Errorf("batch_size must be <= %d, got: %d", maxBatchRequests, bc.BatchSize)
	}
	if bc.CheckInterval <= 0 {
		bc.CheckInterval = 60
	}
	if bc.Concurrency <= 0 {
		bc.Concurrency = 100
	}
	if strings.TrimSpace(bc.CompletionWindow) == "" {
		bc.CompletionWindow = "24h"
	}
	if strings.TrimSpace(bc.Endpoint) == "" {
		bc.Endpoint = "/v1/chat/completions"
	}
	if bc.BatchDiscount == 0 {
		bc.BatchDiscount = 0.5
	}
	if bc.BatchDiscount < 0 || bc.BatchDiscount > 1 {
		return fmt.Errorf("batch_discount must be between 0 and 1, got: %f", bc.BatchDiscount)
	}
	return nil
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	if c.validated {
		return nil
	}

	if strings.TrimSpace(c.WorkingDir) == "" {
		return fmt.Errorf("WorkingDir cannot be empty")
	}
	if strings.TrimSpace(c.CacheDir) == "" {
		return fmt.Errorf("CacheDir cannot be empty")
	}
	if !filepath.IsAbs(c.WorkingDir) {
		return fmt.Errorf("WorkingDir must be an absolute path, got: %s", c.WorkingDir)
	}
	if !filepath.IsAbs(c.CacheDir) {
		return fmt.Errorf("CacheDir must be an absolute path, got: %s", c.CacheDir)
	}

	if err := c.validateDirectory(c.WorkingDir); err != nil {
		return fmt.Errorf("WorkingDir validation failed: %w", err)
	}
	if err := c.validateDirectory(c.CacheDir); err != nil {
		return fmt.Errorf("CacheDir validation failed: %w", err)
	}

	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("LLM config validation failed: %w", err)
	}
	if err := c.Batch.Validate(); err != nil {
		return fmt.Errorf("batch config validation failed: %w", err)
	}

	c.validated = true
	return nil
}

// IsValid returns whether the config has been successfully validated.
func (c *Config) IsValid() bool { return c.validated }

// MustValidate validates the config and panics on error.
func (c *Config) MustValidate() {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("configuration validation failed: %v", err))
	}
}

func (c *Config) validateDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	testFile := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return fmt.Errorf("directory %s is not writable: %w", dir, err)
	}
	_ = os.Remove(testFile)
	return nil
}

// LLMModel enumerates the models this module has pricing/rate-limit data for.
type LLMModel string

func (m LLMModel) String() string { return string(m) }

const (
	LLMModelGPT5      LLMModel = "gpt-5"
	LLMModelGPT5Mini  LLMModel = "gpt-5-mini"
	LLMModelGPT4o     LLMModel = "gpt-4o"
	LLMModelGPT4oMini LLMModel = "gpt-4o-mini"
)

// LLMConfig holds the provider-facing configuration.
type LLMConfig struct {
	Provider string       `mapstructure:"provider" yaml:"provider"`
	Model    LLMModel     `mapstructure:"model" yaml:"model"`
	APIKey   string       `mapstructure:"api_key" yaml:"api_key"`
	BaseURL  string       `mapstructure:"base_url" yaml:"base_url"`
	OpenAI   OpenAIConfig `mapstructure:"openai" yaml:"openai"`
}

// Validate validates the LLM configuration.
func (lc *LLMConfig) Validate() error {
	if strings.TrimSpace(lc.Provider) == "" {
		return fmt.Errorf("provider cannot be empty")
	}
	if strings.TrimSpace(string(lc.Model)) == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if strings.TrimSpace(lc.APIKey) == "" {
		return fmt.Errorf("APIKey cannot be empty")
	}
	if lc.BaseURL != "" && !strings.HasPrefix(lc.BaseURL, "http://") && !strings.HasPrefix(lc.BaseURL, "https://") {
		return fmt.Errorf("BaseURL must be a valid HTTP(S) URL, got: %s", lc.BaseURL)
	}
	if strings.ToLower(lc.Provider) == "openai" {
		if err := lc.OpenAI.Validate(); err != nil {
			return fmt.Errorf("OpenAI config validation failed: %w", err)
		}
	}
	return nil
}

// OpenAIConfig holds OpenAI-specific configuration parameters.
type OpenAIConfig struct {
	OrganizationID      string   `mapstructure:"organization_id" yaml:"organization_id"`
	ProjectID           string   `mapstructure:"project_id" yaml:"project_id"`
	MaxCompletionTokens int64    `mapstructure:"max_completion_tokens" yaml:"max_completion_tokens"`
	Temperature         *float64 `mapstructure:"temperature" yaml:"temperature"`
	TopP                *float64 `mapstructure:"top_p" yaml:"top_p"`
	PresencePenalty     *float64 `mapstructure:"presence_penalty" yaml:"presence_penalty"`
	FrequencyPenalty    *float64 `mapstructure:"frequency_penalty" yaml:"frequency_penalty"`

	RateLimit models.RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Retry     models.RetryConfig     `mapstructure:"retry" yaml:"retry"`
}

// Validate validates the OpenAI configuration.
func (oc *OpenAIConfig) Validate() error {
	if oc.Temperature != nil && (*oc.Temperature < 0 || *oc.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2, got: %f", *oc.Temperature)
	}
	if oc.TopP != nil && (*oc.TopP < 0 || *oc.TopP > 1) {
		return fmt.Errorf("TopP must be between 0 and 1, got: %f", *oc.TopP)
	}
	if oc.PresencePenalty != nil && (*oc.PresencePenalty < -2.0 || *oc.PresencePenalty > 2.0) {
		return fmt.Errorf("PresencePenalty must be between -2.0 and 2.0, got: %f", *oc.PresencePenalty)
	}
	if oc.FrequencyPenalty != nil && (*oc.FrequencyPenalty < -2.0 || *oc.FrequencyPenalty > 2.0) {
		return fmt.Errorf("FrequencyPenalty must be between -2.0 and 2.0, got: %f", *oc.FrequencyPenalty)
	}
	if oc.MaxCompletionTokens < 0 {
		return fmt.Errorf("MaxCompletionTokens must be non-negative, got: %d", oc.MaxCompletionTokens)
	}
	if err := oc.RateLimit.Validate(); err != nil {
		return fmt.Errorf("RateLimit config validation failed: %w", err)
	}
	if err := oc.Retry.Validate(); err != nil {
		return fmt.Errorf("Retry config validation failed: %w", err)
	}
	return nil
}

// ValidModels lists the models this config accepts; used by callers that
// want to fail fast on typos before submitting a batch.
func ValidModels() []LLMModel {
	return []LLMModel{LLMModelGPT5, LLMModelGPT5Mini, LLMModelGPT4o, LLMModelGPT4oMini}
}

// IsValidModel reports whether m is one of ValidModels.
func IsValidModel(m LLMModel) bool { return slices.Contains(ValidModels(), m) }
