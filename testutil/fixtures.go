package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// SampleHistoryJSON is a one-session chat history as persisted under chat_history
const SampleHistoryJSON = `[{"id":1700000000000,"messages":[` +
	`{"role":"user","content":"Build a landing page","timestamp":1699999990000},` +
	`{"role":"assistant","content":"` + "```html\\n<h1>Landing</h1>\\n```" + `","timestamp":1699999995000}` +
	`],"timestamp":1700000000000}]`

// SampleReply is an assistant reply carrying all three recognized blocks
const SampleReply = "Here you go.\n\n### HTML\n```html\n<h1>Hello</h1>\n```\n\n### CSS\n```css\nh1 { color: teal; }\n```\n\n### JavaScript\n```javascript\nconsole.log('ready');\n```\n"

// RecordedRequest is one request seen by a FakeProvider
type RecordedRequest struct {
	Path    string
	Query   string
	Headers http.Header
	Body    map[string]interface{}
}

// FakeProvider is an httptest server that answers every request with a fixed
// status and body and records what it received
type FakeProvider struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	delay    time.Duration
	requests []RecordedRequest
}

// NewFakeProvider starts a fake provider replying with status and body
func NewFakeProvider(t *testing.T, status int, body string) *FakeProvider {
	t.Helper()
	fp := &FakeProvider{status: status, body: body}
	fp.Server = httptest.NewServer(http.HandlerFunc(fp.handle))
	t.Cleanup(fp.Close)
	return fp
}

// OpenAIReply returns a chat completions response body carrying content
func OpenAIReply(t *testing.T, content string) string {
	t.Helper()
	return string(JSONMarshal(t, map[string]interface{}{
		"choices": []interface{}{
			map[string]interface{}{"message": map[string]interface{}{"role": "assistant", "content": content}},
		},
	}))
}

func (fp *FakeProvider) handle(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	rec := RecordedRequest{
		Path:    r.URL.Path,
		Query:   r.URL.RawQuery,
		Headers: r.Header.Clone(),
		Body:    map[string]interface{}{},
	}
	_ = json.Unmarshal(raw, &rec.Body)

	fp.mu.Lock()
	fp.requests = append(fp.requests, rec)
	status, body, delay := fp.status, fp.body, fp.delay
	fp.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// Reply changes the response for subsequent requests
func (fp *FakeProvider) Reply(status int, body string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.status = status
	fp.body = body
}

// Delay makes subsequent responses wait d before answering
func (fp *FakeProvider) Delay(d time.Duration) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.delay = d
}

// Requests returns the requests received so far
func (fp *FakeProvider) Requests() []RecordedRequest {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	out := make([]RecordedRequest, len(fp.requests))
	copy(out, fp.requests)
	return out
}

// Endpoints points every provider at the fake server
func (fp *FakeProvider) Endpoints() map[string]string {
	return map[string]string{
		"gemini":    fp.URL + "/gemini/",
		"groq":      fp.URL + "/groq",
		"openai":    fp.URL + "/openai",
		"anthropic": fp.URL + "/anthropic",
	}
}
