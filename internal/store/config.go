package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Company string `yaml:"company"`
	Ticker  string `yaml:"ticker"`

	Acquire struct {
		Quarters         int     `yaml:"quarters"`
		FetchTimeoutSecs int     `yaml:"fetch_timeout_secs"`
		MinContentLength int     `yaml:"min_content_length"`
		MaxRetries       int     `yaml:"max_retries"`
		BackoffSecs      float64 `yaml:"backoff_secs"`
		FetchDelayMs     int     `yaml:"fetch_delay_ms"`
	} `yaml:"acquire"`

	Analysis struct {
		CallDelayMs  int `yaml:"call_delay_ms"`
		ExcerptRunes int `yaml:"excerpt_runes"`
	} `yaml:"analysis"`

	LLM struct {
		Provider    string  `yaml:"provider"` // CLAUDE, OPENAI or NOOP
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
	} `yaml:"llm"`
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Company) == "" {
		return fmt.Errorf("company cannot be empty")
	}
	switch strings.ToUpper(c.LLM.Provider) {
	case "CLAUDE", "OPENAI", "NOOP":
	default:
		return fmt.Errorf("invalid llm.provider '%s': must be 'CLAUDE', 'OPENAI' or 'NOOP'", c.LLM.Provider)
	}
	if c.Acquire.Quarters <= 0 {
		return fmt.Errorf("acquire.quarters must be positive, got %d", c.Acquire.Quarters)
	}
	if c.Acquire.MaxRetries < 0 {
		return fmt.Errorf("acquire.max_retries cannot be negative, got %d", c.Acquire.MaxRetries)
	}
	return nil
}

// FetchTimeout returns the per-request timeout for transcript fetches.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Acquire.FetchTimeoutSecs) * time.Second
}

// BackoffDuration returns the base backoff unit between fetch retries.
func (c *Config) BackoffDuration() time.Duration {
	return time.Duration(c.Acquire.BackoffSecs * float64(time.Second))
}

// FetchDelay returns the minimum gap between consecutive candidate fetches.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.Acquire.FetchDelayMs) * time.Millisecond
}

// CallDelay returns the minimum gap between the start of consecutive
// analysis-service calls.
func (c *Config) CallDelay() time.Duration {
	return time.Duration(c.Analysis.CallDelayMs) * time.Millisecond
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Acquire.Quarters == 0 {
		c.Acquire.Quarters = 4
	}
	if c.Acquire.FetchTimeoutSecs == 0 {
		c.Acquire.FetchTimeoutSecs = 30
	}
	if c.Acquire.MinContentLength == 0 {
		c.Acquire.MinContentLength = 500
	}
	if c.Acquire.MaxRetries == 0 {
		c.Acquire.MaxRetries = 3
	}
	if c.Acquire.BackoffSecs == 0 {
		c.Acquire.BackoffSecs = 2
	}
	if c.Acquire.FetchDelayMs == 0 {
		c.Acquire.FetchDelayMs = 500
	}
	if c.Analysis.CallDelayMs == 0 {
		c.Analysis.CallDelayMs = 1000
	}
	if c.Analysis.ExcerptRunes == 0 {
		c.Analysis.ExcerptRunes = 2000
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 500
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
