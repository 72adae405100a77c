package core

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultGeminiAPIBase is the generative language API root used when
// GEMINI_API_BASE is not set.
const DefaultGeminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

// Config holds all configuration values loaded from the environment.
type Config struct {
	// API keys
	GeminiAPIKey string
	OpenAIAPIKey string

	// Provider selection: "gemini" (default) or "openai"
	Provider string

	// Endpoints
	GeminiAPIBase string
	OpenAIAPIBase string

	// Generation
	Model          string
	RequestTimeout time.Duration

	// TLS
	AllowSelfSignedCerts bool

	// History database. Empty disables history recording.
	HistoryDBPath string

	// Logging
	LogFilePath string
	DevMode     bool
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. Provider credentials are validated lazily by the providers
// themselves so that pure post-processing runs need no API key at all.
func LoadConfig() (*Config, error) {
	provider := strings.ToLower(GetEnvOrDefault("IMAGE_PROVIDER", "gemini"))
	if provider != "gemini" && provider != "openai" {
		return nil, ErrInvalidConfig("IMAGE_PROVIDER", "must be \"gemini\" or \"openai\"")
	}

	geminiBase := GetEnvOrDefault("GEMINI_API_BASE", DefaultGeminiAPIBase)
	if _, err := url.ParseRequestURI(geminiBase); err != nil {
		return nil, ErrInvalidEndpoint(geminiBase, err.Error())
	}

	timeout := ParseDurationEnv("REQUEST_TIMEOUT", 120)
	if timeout <= 0 {
		return nil, ErrInvalidConfig("REQUEST_TIMEOUT", "must be positive")
	}

	return &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		Provider: provider,

		GeminiAPIBase: geminiBase,
		OpenAIAPIBase: GetEnvOrDefault("OPENAI_API_BASE", "https://api.openai.com/v1"),

		Model:          GetEnvOrDefault("IMAGE_GEN_MODEL", "gemini-2.5-flash-image"),
		RequestTimeout: timeout,

		AllowSelfSignedCerts: ParseBoolEnv("ALLOW_SELF_SIGNED_CERTS", false),

		HistoryDBPath: GetEnvOrDefault("HISTORY_DB_PATH", "spritegen.db"),

		LogFilePath: GetEnvOrDefault("LOG_FILE", "spritegen.log"),
		DevMode:     ParseBoolEnv("DEV_MODE", false),
	}, nil
}

// APIKeyForProvider returns the credential for the configured provider.
func (c *Config) APIKeyForProvider() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// HasHistory returns true if generation history recording is enabled.
func (c *Config) HasHistory() bool {
	return c.HistoryDBPath != ""
}

// GetHTTPClient returns an HTTP client configured with TLS settings based on
// AllowSelfSignedCerts. Used for all requests to external APIs.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}

// GetDefaultHTTPClient returns an HTTP client with the configured request timeout.
func GetDefaultHTTPClient(cfg *Config) *http.Client {
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return GetHTTPClient(cfg, timeout)
}
