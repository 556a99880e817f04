package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvRefineProvider      = "QUILL_REFINE_PROVIDER"
	EnvRefineModel         = "QUILL_REFINE_MODEL"
	EnvRefineTemperature   = "QUILL_REFINE_TEMPERATURE"
	EnvRefineAPIKey        = "QUILL_REFINE_API_KEY"
	EnvRefineOpenAIBaseURL = "QUILL_REFINE_OPENAI_BASE_URL"
	EnvRefineOllamaBaseURL = "QUILL_REFINE_OLLAMA_BASE_URL"
	EnvRefineTimeout       = "QUILL_REFINE_TIMEOUT"
	EnvRefineMaxAttempts   = "QUILL_REFINE_MAX_ATTEMPTS"
)

// RefineConfig holds LLM refinement proxy settings.
type RefineConfig struct {
	Provider      string  `toml:"provider"`
	Model         string  `toml:"model"`
	Temperature   float64 `toml:"temperature"`
	APIKey        string  `toml:"api_key"`
	OpenAIBaseURL string  `toml:"openai_base_url"`
	OllamaBaseURL string  `toml:"ollama_base_url"`
	Timeout       string  `toml:"timeout"`
	MaxAttempts   int     `toml:"max_attempts"`
	BackoffBase   string  `toml:"backoff_base"`
	BackoffMax    string  `toml:"backoff_max"`
	BackoffFactor float64 `toml:"backoff_factor"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *RefineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// BackoffBaseDuration returns BackoffBase as a time.Duration.
func (c *RefineConfig) BackoffBaseDuration() time.Duration {
	d, _ := time.ParseDuration(c.BackoffBase)
	return d
}

// BackoffMaxDuration returns BackoffMax as a time.Duration.
func (c *RefineConfig) BackoffMaxDuration() time.Duration {
	d, _ := time.ParseDuration(c.BackoffMax)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *RefineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *RefineConfig) Merge(overlay *RefineConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.OpenAIBaseURL != "" {
		c.OpenAIBaseURL = overlay.OpenAIBaseURL
	}
	if overlay.OllamaBaseURL != "" {
		c.OllamaBaseURL = overlay.OllamaBaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.BackoffBase != "" {
		c.BackoffBase = overlay.BackoffBase
	}
	if overlay.BackoffMax != "" {
		c.BackoffMax = overlay.BackoffMax
	}
	if overlay.BackoffFactor != 0 {
		c.BackoffFactor = overlay.BackoffFactor
	}
}

func (c *RefineConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = "ollama"
	}
	if c.Model == "" {
		c.Model = "llama3.2"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.OpenAIBaseURL == "" {
		c.OpenAIBaseURL = "https://api.openai.com/v1"
	}
	if c.OllamaBaseURL == "" {
		c.OllamaBaseURL = "http://localhost:11434"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase == "" {
		c.BackoffBase = "1s"
	}
	if c.BackoffMax == "" {
		c.BackoffMax = "30s"
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 2.0
	}
}

func (c *RefineConfig) loadEnv() {
	if v := os.Getenv(EnvRefineProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvRefineModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvRefineTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = t
		}
	}
	if v := os.Getenv(EnvRefineAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvRefineOpenAIBaseURL); v != "" {
		c.OpenAIBaseURL = v
	}
	if v := os.Getenv(EnvRefineOllamaBaseURL); v != "" {
		c.OllamaBaseURL = v
	}
	if v := os.Getenv(EnvRefineTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvRefineMaxAttempts); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttempts = n
		}
	}
}

func (c *RefineConfig) validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.BackoffBase); err != nil {
		return fmt.Errorf("invalid backoff_base: %w", err)
	}
	if _, err := time.ParseDuration(c.BackoffMax); err != nil {
		return fmt.Errorf("invalid backoff_max: %w", err)
	}
	return nil
}
