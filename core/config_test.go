package core

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("IMAGE_PROVIDER", "")
	t.Setenv("IMAGE_GEN_MODEL", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("HISTORY_DB_PATH", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Errorf("Provider = %q, want gemini", cfg.Provider)
	}
	if cfg.Model != "gemini-2.5-flash-image" {
		t.Errorf("Model = %q, want gemini-2.5-flash-image", cfg.Model)
	}
	if cfg.RequestTimeout != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", cfg.RequestTimeout)
	}
	if cfg.GeminiAPIBase != DefaultGeminiAPIBase {
		t.Errorf("GeminiAPIBase = %q, want %q", cfg.GeminiAPIBase, DefaultGeminiAPIBase)
	}
	if cfg.APIKeyForProvider() != "test-key" {
		t.Errorf("APIKeyForProvider() = %q, want test-key", cfg.APIKeyForProvider())
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	t.Setenv("IMAGE_PROVIDER", "stable-diffusion")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if GetErrorCode(err) != ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", GetErrorCode(err), ErrCodeInvalidConfig)
	}
}

func TestLoadConfigRejectsBadEndpoint(t *testing.T) {
	t.Setenv("IMAGE_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_BASE", "://not-a-url")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error for malformed endpoint")
	}
	if GetErrorCode(err) != ErrCodeInvalidEndpoint {
		t.Errorf("error code = %q, want %q", GetErrorCode(err), ErrCodeInvalidEndpoint)
	}
}

func TestLoadConfigOpenAIProvider(t *testing.T) {
	t.Setenv("IMAGE_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_BASE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.APIKeyForProvider() != "sk-test" {
		t.Errorf("APIKeyForProvider() = %q, want sk-test", cfg.APIKeyForProvider())
	}
}

func TestHasHistory(t *testing.T) {
	cfg := &Config{HistoryDBPath: "spritegen.db"}
	if !cfg.HasHistory() {
		t.Error("expected history enabled with a db path")
	}
	cfg.HistoryDBPath = ""
	if cfg.HasHistory() {
		t.Error("expected history disabled with empty db path")
	}
}

func TestGetHTTPClient(t *testing.T) {
	cfg := &Config{AllowSelfSignedCerts: false}
	client := GetHTTPClient(cfg, 10*time.Second)
	if client.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", client.Timeout)
	}
	if client.Transport != nil {
		t.Error("expected default transport when self-signed certs are not allowed")
	}

	cfg.AllowSelfSignedCerts = true
	client = GetHTTPClient(cfg, 10*time.Second)
	if client.Transport == nil {
		t.Error("expected custom transport when self-signed certs are allowed")
	}
}
