package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeMissingAPIKey   = "MISSING_API_KEY"
	ErrCodeInvalidEndpoint = "INVALID_ENDPOINT"
	ErrCodeInvalidConfig   = "INVALID_CONFIG"
	ErrCodeConfigFile      = "CONFIG_FILE"
)

// ErrMissingAPIKey returns an error for a missing provider credential.
func ErrMissingAPIKey(provider string) *ConfigError {
	var action string
	switch provider {
	case "gemini":
		action = "Set GEMINI_API_KEY in your environment or .env file"
	case "openai":
		action = "Set OPENAI_API_KEY in your environment or .env file"
	default:
		action = fmt.Sprintf("Set the API key for %s in your .env file", provider)
	}
	return &ConfigError{
		Code:    ErrCodeMissingAPIKey,
		Message: fmt.Sprintf("Missing API key for provider %q", provider),
		Action:  action,
	}
}

// ErrInvalidEndpoint returns an error for a malformed API endpoint.
func ErrInvalidEndpoint(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidEndpoint,
		Message: fmt.Sprintf("Invalid API endpoint %q: %s", url, reason),
		Action:  "Set GEMINI_API_BASE to a valid https URL",
	}
}

// ErrInvalidConfig returns an error for an out-of-range configuration value.
func ErrInvalidConfig(name string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("Invalid configuration for %s: %s", name, reason),
	}
}

// ErrConfigFile returns an error for an unreadable or malformed defaults file.
func ErrConfigFile(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeConfigFile,
		Message: fmt.Sprintf("Cannot load defaults file %s: %s", path, reason),
		Action:  "Fix the YAML syntax or remove the file",
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	if configErr, ok := err.(*ConfigError); ok {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError.
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
