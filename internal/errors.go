package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrGenerating is returned when a send is attempted while another is in flight
	ErrGenerating = errors.New("a response is already being generated")

	// ErrEmptyPrompt is returned for blank input
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// StorageError represents errors reading or writing the key-value store
type StorageError struct {
	Key string
	Op  string // "get", "set", "delete", "clear", "open"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ParseError represents errors parsing persisted data
type ParseError struct {
	Source string // "chat_history", "app_settings", "config"
	Key    string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfigurationError is returned when a provider is selected without a stored credential
type ConfigurationError struct {
	Provider string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s API key not configured", e.Provider)
}

// UnsupportedModelError is returned when a model id maps to no provider or no alias
type UnsupportedModelError struct {
	Model  string
	Reason string
}

func (e *UnsupportedModelError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported model %q: %s", e.Model, e.Reason)
	}
	return fmt.Sprintf("unsupported model %q", e.Model)
}

// ProviderError is a transport failure or non-2xx answer from a provider
type ProviderError struct {
	Provider   string
	StatusCode int // 0 for transport failures
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err carries a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
