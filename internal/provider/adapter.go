package provider

import (
	"github.com/iksnae/sitechat/internal"
	"github.com/tidwall/gjson"
)

// SystemPrompt is prepended to every conversation sent through Dispatcher.Send
const SystemPrompt = `You are an expert web developer. When asked to create websites or web components:
1. Always provide COMPLETE, PRODUCTION-READY code
2. Separate HTML, CSS, and JavaScript clearly
3. Use modern, responsive design principles
4. Include comments for clarity
5. Make sure all code is fully functional
6. Use best practices and clean code
7. Provide unlimited lines of code as needed

Format your response with clear sections:
### HTML
` + "```html" + `
[complete HTML code]
` + "```" + `

### CSS
` + "```css" + `
[complete CSS code]
` + "```" + `

### JavaScript
` + "```javascript" + `
[complete JavaScript code]
` + "```" + `

Make the code beautiful, functional, and ready to use immediately.`

// TestPrompt is the lightweight prompt sent by TestConnection
const TestPrompt = `Hello, respond with "Connected successfully"`

// Request is a provider HTTP call before execution
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    interface{}
}

// adapter shapes requests and unwraps responses for one provider's schema
type adapter interface {
	// BuildRequest translates messages into the provider's request
	BuildRequest(model, apiKey string, messages []internal.Message) (*Request, error)

	// ParseResponse unwraps the first reply text from a 2xx body
	ParseResponse(body []byte) (string, error)

	// ErrorMessage extracts the provider's own message from a failure body, or ""
	ErrorMessage(body []byte) string

	// Fallback is the error message used when a failed response carries none
	Fallback() string
}

// chatMessage is the {role, content} shape shared by the message-array schemas
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func toChatMessages(messages []internal.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// errorMessage pulls error.message out of a failure body; all four
// providers report errors there.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "error.message").String()
}

func replyAt(body []byte, path string) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	res := gjson.GetBytes(body, path)
	if !res.Exists() || res.Type != gjson.String {
		return "", false
	}
	return res.String(), true
}
