package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "company: Acme Corp\nticker: ACME\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Acquire.Quarters != 4 {
		t.Errorf("Expected default quarters 4, got %d", cfg.Acquire.Quarters)
	}
	if cfg.Acquire.MinContentLength != 500 {
		t.Errorf("Expected default min content length 500, got %d", cfg.Acquire.MinContentLength)
	}
	if cfg.LLM.Provider != "NOOP" {
		t.Errorf("Expected default provider NOOP, got %s", cfg.LLM.Provider)
	}
	if cfg.FetchTimeout() != 30*time.Second {
		t.Errorf("Expected default fetch timeout 30s, got %v", cfg.FetchTimeout())
	}
	if cfg.BackoffDuration() != 2*time.Second {
		t.Errorf("Expected default backoff 2s, got %v", cfg.BackoffDuration())
	}
	if cfg.CallDelay() != time.Second {
		t.Errorf("Expected default call delay 1s, got %v", cfg.CallDelay())
	}
	if cfg.Analysis.ExcerptRunes != 2000 {
		t.Errorf("Expected default excerpt runes 2000, got %d", cfg.Analysis.ExcerptRunes)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `company: Acme Corp
ticker: ACME
acquire:
  quarters: 8
  fetch_timeout_secs: 10
  backoff_secs: 0.5
  fetch_delay_ms: 250
analysis:
  call_delay_ms: 2000
llm:
  provider: CLAUDE
  model: claude-3-5-sonnet-20241022
  max_tokens: 800
  temperature: 0.2
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Acquire.Quarters != 8 {
		t.Errorf("Expected quarters 8, got %d", cfg.Acquire.Quarters)
	}
	if cfg.BackoffDuration() != 500*time.Millisecond {
		t.Errorf("Expected backoff 500ms, got %v", cfg.BackoffDuration())
	}
	if cfg.FetchDelay() != 250*time.Millisecond {
		t.Errorf("Expected fetch delay 250ms, got %v", cfg.FetchDelay())
	}
	if cfg.CallDelay() != 2*time.Second {
		t.Errorf("Expected call delay 2s, got %v", cfg.CallDelay())
	}
	if cfg.LLM.Provider != "CLAUDE" || cfg.LLM.MaxTokens != 800 {
		t.Errorf("Unexpected llm config: %+v", cfg.LLM)
	}
}

func TestLoadConfigMissingCompany(t *testing.T) {
	path := writeConfig(t, "ticker: ACME\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error for missing company")
	}
	if !strings.Contains(err.Error(), "company") {
		t.Errorf("Error should mention company: %v", err)
	}
}

func TestLoadConfigInvalidProvider(t *testing.T) {
	path := writeConfig(t, "company: Acme\nllm:\n  provider: GEMINI\n")

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("Expected validation error for unknown provider")
	}
	if !strings.Contains(err.Error(), "llm.provider") {
		t.Errorf("Error should mention llm.provider: %v", err)
	}
}

func TestLoadConfigNegativeQuarters(t *testing.T) {
	path := writeConfig(t, "company: Acme\nacquire:\n  quarters: -2\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("Expected validation error for negative quarters")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestValidateProviderCaseInsensitive(t *testing.T) {
	path := writeConfig(t, "company: Acme\nllm:\n  provider: claude\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Lowercase provider should validate: %v", err)
	}
	if cfg.LLM.Provider != "claude" {
		t.Errorf("Provider should be kept as written, got %s", cfg.LLM.Provider)
	}
}
