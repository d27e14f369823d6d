package provider

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/iksnae/sitechat/internal"
)

// DefaultGeminiURL is the models collection of the Generative Language API
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/"

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// geminiAdapter speaks the generateContent schema: content parts, key in the query string
type geminiAdapter struct {
	baseURL string
}

func (g *geminiAdapter) BuildRequest(model, apiKey string, messages []internal.Message) (*Request, error) {
	contents := make([]geminiContent, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == internal.RoleAssistant {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	endpoint := strings.TrimRight(g.baseURL, "/") + "/" + model + ":generateContent?key=" + url.QueryEscape(apiKey)
	return &Request{
		Method:  http.MethodPost,
		URL:     endpoint,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    geminiRequest{Contents: contents},
	}, nil
}

func (g *geminiAdapter) ParseResponse(body []byte) (string, error) {
	text, ok := replyAt(body, "candidates.0.content.parts.0.text")
	if !ok {
		return "", errors.New("Gemini response contained no candidate text")
	}
	return text, nil
}

func (g *geminiAdapter) ErrorMessage(body []byte) string {
	return errorMessage(body)
}

func (g *geminiAdapter) Fallback() string {
	return "Gemini API error"
}
