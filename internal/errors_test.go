package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageError(t *testing.T) {
	originalErr := errors.New("database is locked")
	err := &StorageError{
		Key: "chat_history",
		Op:  "set",
		Err: originalErr,
	}

	// Test Error() method
	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "storage error") {
		t.Errorf("StorageError.Error() should contain 'storage error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "chat_history") {
		t.Errorf("StorageError.Error() should contain key, got: %q", errorMsg)
	}

	// Test Unwrap() method
	if !errors.Is(err, originalErr) {
		t.Error("StorageError.Unwrap() should return original error")
	}
}

func TestParseError(t *testing.T) {
	originalErr := errors.New("invalid JSON")
	err := &ParseError{
		Source: "kv",
		Key:    "app_settings",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "parse error") {
		t.Errorf("ParseError.Error() should contain 'parse error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "app_settings") {
		t.Errorf("ParseError.Error() should contain key, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ParseError.Unwrap() should return original error")
	}
}

func TestConfigurationError(t *testing.T) {
	err := &ConfigurationError{Provider: "OpenAI"}
	if got := err.Error(); got != "OpenAI API key not configured" {
		t.Errorf("ConfigurationError.Error() = %q", got)
	}

	wrapped := fmt.Errorf("send failed: %w", err)
	if !IsConfigurationError(wrapped) {
		t.Error("IsConfigurationError() should see through wrapping")
	}
	if IsConfigurationError(errors.New("other")) {
		t.Error("IsConfigurationError() should be false for unrelated errors")
	}
}

func TestUnsupportedModelError(t *testing.T) {
	tests := []struct {
		name string
		err  *UnsupportedModelError
		want string
	}{
		{
			name: "with reason",
			err:  &UnsupportedModelError{Model: "mistral-large", Reason: "no provider for this model"},
			want: `unsupported model "mistral-large": no provider for this model`,
		},
		{
			name: "without reason",
			err:  &UnsupportedModelError{Model: "x"},
			want: `unsupported model "x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ProviderError{Provider: "Groq", Message: "Groq API error", Err: cause}

	if err.Error() != "Groq API error" {
		t.Errorf("ProviderError.Error() = %q, want the provider message", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("ProviderError.Unwrap() should return the cause")
	}
}

func TestExportError(t *testing.T) {
	originalErr := errors.New("write failed")
	err := &ExportError{
		Format: "jsonl",
		Path:   "/output/file.jsonl",
		Err:    originalErr,
	}

	errorMsg := err.Error()
	if !strings.Contains(errorMsg, "export error") {
		t.Errorf("ExportError.Error() should contain 'export error', got: %q", errorMsg)
	}
	if !strings.Contains(errorMsg, "jsonl") {
		t.Errorf("ExportError.Error() should contain format, got: %q", errorMsg)
	}
	if !errors.Is(err, originalErr) {
		t.Error("ExportError.Unwrap() should return original error")
	}
}
