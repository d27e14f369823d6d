// Package provider dispatches chat requests to the supported LLM HTTP APIs.
package provider

import (
	"fmt"
	"strings"

	"github.com/iksnae/sitechat/internal"
)

// Provider identifies one of the supported LLM APIs
type Provider int

const (
	Gemini Provider = iota
	Groq
	OpenAI
	Anthropic
)

// All lists every provider in display order
var All = []Provider{Gemini, Groq, OpenAI, Anthropic}

var providerNames = map[Provider]string{
	Gemini:    "gemini",
	Groq:      "groq",
	OpenAI:    "openai",
	Anthropic: "anthropic",
}

var providerDisplayNames = map[Provider]string{
	Gemini:    "Gemini",
	Groq:      "Groq",
	OpenAI:    "OpenAI",
	Anthropic: "Anthropic",
}

// modelPrefixes maps a model id prefix to its provider. Anthropic models are
// named after the model family rather than the company.
var modelPrefixes = []struct {
	prefix   string
	provider Provider
}{
	{"gemini", Gemini},
	{"groq", Groq},
	{"openai", OpenAI},
	{"claude", Anthropic},
}

// String returns the lower-case provider name, which is also its credential name
func (p Provider) String() string {
	if name, ok := providerNames[p]; ok {
		return name
	}
	return fmt.Sprintf("provider(%d)", int(p))
}

// DisplayName returns the human-readable provider name
func (p Provider) DisplayName() string {
	if name, ok := providerDisplayNames[p]; ok {
		return name
	}
	return p.String()
}

// CredentialKey returns the storage key holding this provider's API key
func (p Provider) CredentialKey() string {
	return internal.CredentialKey(p.String())
}

// ParseProvider parses a provider name such as "openai"
func ParseProvider(name string) (Provider, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range providerNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown provider %q (supported: gemini, groq, openai, anthropic)", name)
}

// ForModel maps a model id to its provider by prefix
func ForModel(modelID string) (Provider, error) {
	for _, mp := range modelPrefixes {
		if strings.HasPrefix(modelID, mp.prefix) {
			return mp.provider, nil
		}
	}
	return 0, &internal.UnsupportedModelError{Model: modelID, Reason: "no provider for this model"}
}
