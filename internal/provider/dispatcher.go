package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/iksnae/sitechat/internal"
)

// CredentialSource resolves a provider name to its stored API key
type CredentialSource interface {
	Get(provider string) string
}

// Options configures a Dispatcher. Zero values select the public endpoints
// and http.DefaultClient.
type Options struct {
	// Endpoints overrides base URLs, keyed by provider name ("gemini", "groq", ...)
	Endpoints map[string]string

	// Aliases adds or overrides model id -> provider model name entries
	Aliases map[string]string

	Client *http.Client
}

// Dispatcher routes a model id to its provider, resolves the model alias and
// credential, and performs one HTTP request per call.
type Dispatcher struct {
	creds    CredentialSource
	client   *http.Client
	aliases  aliasTable
	adapters map[Provider]adapter
}

// Resolution is the outcome of mapping a model id
type Resolution struct {
	Provider     Provider
	ModelID      string
	ProviderName string
}

// NewDispatcher creates a dispatcher reading credentials from creds
func NewDispatcher(creds CredentialSource, opts Options) *Dispatcher {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := func(p Provider, def string) string {
		if url, ok := opts.Endpoints[p.String()]; ok && url != "" {
			return url
		}
		return def
	}

	return &Dispatcher{
		creds:   creds,
		client:  client,
		aliases: newAliasTable(opts.Aliases),
		adapters: map[Provider]adapter{
			Gemini:    &geminiAdapter{baseURL: endpoint(Gemini, DefaultGeminiURL)},
			Groq:      newGroqAdapter(endpoint(Groq, DefaultGroqURL)),
			OpenAI:    newOpenAIAdapter(endpoint(OpenAI, DefaultOpenAIURL)),
			Anthropic: &anthropicAdapter{endpoint: endpoint(Anthropic, DefaultAnthropicURL)},
		},
	}
}

// Resolve maps a model id to its provider and provider-side model name
func (d *Dispatcher) Resolve(modelID string) (*Resolution, error) {
	p, err := ForModel(modelID)
	if err != nil {
		return nil, err
	}
	name, ok := d.aliases.lookup(p, modelID)
	if !ok {
		return nil, &internal.UnsupportedModelError{
			Model:  modelID,
			Reason: fmt.Sprintf("no %s model alias", p.DisplayName()),
		}
	}
	return &Resolution{Provider: p, ModelID: modelID, ProviderName: name}, nil
}

// Models lists the model ids known for a provider, sorted
func (d *Dispatcher) Models(p Provider) []string {
	return d.aliases.models(p)
}

// Send prepends the system prompt to messages and returns the first reply text.
// Model resolution happens before the credential check; neither touches the network.
func (d *Dispatcher) Send(ctx context.Context, modelID string, messages []internal.Message) (string, error) {
	res, err := d.Resolve(modelID)
	if err != nil {
		return "", err
	}

	apiKey := d.creds.Get(res.Provider.String())
	if apiKey == "" {
		return "", &internal.ConfigurationError{Provider: res.Provider.DisplayName()}
	}

	full := make([]internal.Message, 0, len(messages)+1)
	full = append(full, internal.Message{Role: internal.RoleUser, Content: SystemPrompt})
	full = append(full, messages...)

	return d.call(ctx, res, apiKey, full)
}

// TestConnection sends TestPrompt to the provider's test model without the
// system prompt. An empty candidate falls back to the stored key.
func (d *Dispatcher) TestConnection(ctx context.Context, p Provider, candidateKey string) (string, error) {
	apiKey := candidateKey
	if apiKey == "" {
		apiKey = d.creds.Get(p.String())
	}
	if apiKey == "" {
		return "", &internal.ConfigurationError{Provider: p.DisplayName()}
	}

	res, err := d.Resolve(TestModel(p))
	if err != nil {
		return "", err
	}

	messages := []internal.Message{{Role: internal.RoleUser, Content: TestPrompt}}
	return d.call(ctx, res, apiKey, messages)
}

func (d *Dispatcher) call(ctx context.Context, res *Resolution, apiKey string, messages []internal.Message) (string, error) {
	ad := d.adapters[res.Provider]
	providerName := res.Provider.DisplayName()

	req, err := ad.BuildRequest(res.ProviderName, apiKey, messages)
	if err != nil {
		return "", &internal.ProviderError{Provider: providerName, Message: err.Error(), Err: err}
	}

	payload, err := json.Marshal(req.Body)
	if err != nil {
		return "", &internal.ProviderError{Provider: providerName, Message: err.Error(), Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(payload))
	if err != nil {
		return "", &internal.ProviderError{Provider: providerName, Message: ad.Fallback(), Err: err}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// URL is not logged: Gemini carries the key in the query string
	internal.LogDebug("Sending %d messages to %s model %s", len(messages), providerName, res.ProviderName)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", &internal.ProviderError{Provider: providerName, Message: transportMessage(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &internal.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: ad.Fallback(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := ad.ErrorMessage(body)
		if msg == "" {
			msg = ad.Fallback()
		}
		internal.LogDebug("%s returned status %d", providerName, resp.StatusCode)
		return "", &internal.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: msg}
	}

	text, err := ad.ParseResponse(body)
	if err != nil {
		return "", &internal.ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}
	return text, nil
}

// transportMessage strips the request URL from *url.Error messages so an API
// key in the query string never reaches the user or the logs.
func transportMessage(err error) string {
	type unwrapper interface{ Unwrap() error }
	if u, ok := err.(unwrapper); ok && u.Unwrap() != nil {
		return u.Unwrap().Error()
	}
	return err.Error()
}
