package provider

import (
	"fmt"
	"net/http"

	"github.com/iksnae/sitechat/internal"
)

const (
	// DefaultGroqURL is Groq's OpenAI-compatible chat completions endpoint
	DefaultGroqURL = "https://api.groq.com/openai/v1/chat/completions"

	// DefaultOpenAIURL is OpenAI's chat completions endpoint
	DefaultOpenAIURL = "https://api.openai.com/v1/chat/completions"
)

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatCompletionsAdapter serves both Groq and OpenAI; they share the schema
// and differ only in endpoint and limits.
type chatCompletionsAdapter struct {
	name        string
	endpoint    string
	temperature float64
	maxTokens   int
}

func newGroqAdapter(endpoint string) *chatCompletionsAdapter {
	return &chatCompletionsAdapter{name: "Groq", endpoint: endpoint, temperature: 0.7, maxTokens: 8000}
}

func newOpenAIAdapter(endpoint string) *chatCompletionsAdapter {
	return &chatCompletionsAdapter{name: "OpenAI", endpoint: endpoint, temperature: 0.7, maxTokens: 4000}
}

func (c *chatCompletionsAdapter) BuildRequest(model, apiKey string, messages []internal.Message) (*Request, error) {
	return &Request{
		Method: http.MethodPost,
		URL:    c.endpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + apiKey,
			"Content-Type":  "application/json",
		},
		Body: chatCompletionRequest{
			Model:       model,
			Messages:    toChatMessages(messages),
			Temperature: c.temperature,
			MaxTokens:   c.maxTokens,
		},
	}, nil
}

func (c *chatCompletionsAdapter) ParseResponse(body []byte) (string, error) {
	text, ok := replyAt(body, "choices.0.message.content")
	if !ok {
		return "", fmt.Errorf("%s response contained no choices", c.name)
	}
	return text, nil
}

func (c *chatCompletionsAdapter) ErrorMessage(body []byte) string {
	return errorMessage(body)
}

func (c *chatCompletionsAdapter) Fallback() string {
	return c.name + " API error"
}
