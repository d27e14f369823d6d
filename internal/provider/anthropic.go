package provider

import (
	"errors"
	"net/http"

	"github.com/iksnae/sitechat/internal"
)

const (
	// DefaultAnthropicURL is the Messages API endpoint
	DefaultAnthropicURL = "https://api.anthropic.com/v1/messages"

	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4000
)

type anthropicRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type anthropicAdapter struct {
	endpoint string
}

func (a *anthropicAdapter) BuildRequest(model, apiKey string, messages []internal.Message) (*Request, error) {
	return &Request{
		Method: http.MethodPost,
		URL:    a.endpoint,
		Headers: map[string]string{
			"x-api-key":         apiKey,
			"anthropic-version": anthropicVersion,
			"Content-Type":      "application/json",
		},
		Body: anthropicRequest{
			Model:     model,
			Messages:  toChatMessages(messages),
			MaxTokens: anthropicMaxTokens,
		},
	}, nil
}

func (a *anthropicAdapter) ParseResponse(body []byte) (string, error) {
	text, ok := replyAt(body, "content.0.text")
	if !ok {
		return "", errors.New("Anthropic response contained no content block")
	}
	return text, nil
}

func (a *anthropicAdapter) ErrorMessage(body []byte) string {
	return errorMessage(body)
}

func (a *anthropicAdapter) Fallback() string {
	return "Anthropic API error"
}
