// Package app owns the application state: credentials, the conversation,
// settings, the extracted code buffers and the in-flight send guard.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/codeblock"
	"github.com/iksnae/sitechat/internal/provider"
)

// App is the single owner of all chat state. It is used from one logical
// event loop; Send may be called from a goroutine, guarded by generating.
type App struct {
	KV           internal.KeyValueStore
	Credentials  *internal.CredentialStore
	Conversation *internal.ConversationStore
	Dispatcher   *provider.Dispatcher

	generating atomic.Bool

	// settingsMu guards settings, which Send updates off the UI goroutine
	settingsMu sync.Mutex
	settings   internal.Settings

	// mu guards code, which the preview server reads concurrently
	mu   sync.RWMutex
	code codeblock.Code
}

// Reply is the outcome of a successful Send
type Reply struct {
	Message internal.Message
	Model   string

	// Extracted holds the languages this reply carried
	Extracted codeblock.Partial
	Code      codeblock.Code
}

// New loads persisted state from kv. Unreadable settings or code fall back to
// defaults with a warning.
func New(kv internal.KeyValueStore, opts provider.Options) *App {
	creds := internal.NewCredentialStore(kv)
	a := &App{
		KV:           kv,
		Credentials:  creds,
		Conversation: internal.NewConversationStore(kv),
		Dispatcher:   provider.NewDispatcher(creds, opts),
	}

	settings, err := internal.LoadSettings(kv)
	if err != nil {
		internal.LogWarn("Failed to load settings, using defaults: %v", err)
	}
	a.settings = settings

	if err := a.loadCode(); err != nil {
		internal.LogWarn("Failed to load code buffers: %v", err)
	}
	return a
}

// Settings returns the current preferences
func (a *App) Settings() internal.Settings {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	return a.settings
}

// UpdateSettings validates and persists s
func (a *App) UpdateSettings(s internal.Settings) error {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	return a.saveSettings(s)
}

// SelectModel makes model the default for later sends. Unknown models are rejected.
func (a *App) SelectModel(model string) error {
	if _, err := a.Dispatcher.Resolve(model); err != nil {
		return err
	}
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	next := a.settings
	next.Model = model
	return a.saveSettings(next)
}

// saveSettings persists s and makes it current; callers hold settingsMu
func (a *App) saveSettings(s internal.Settings) error {
	if err := internal.SaveSettings(a.KV, s); err != nil {
		return err
	}
	a.settings = s
	return nil
}

// Models lists every selectable model id across providers
func (a *App) Models() []string {
	var out []string
	for _, p := range provider.All {
		out = append(out, a.Dispatcher.Models(p)...)
	}
	return out
}

// Code returns the current extracted code buffers. It is safe to call from
// other goroutines.
func (a *App) Code() codeblock.Code {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.code
}

// Generating reports whether a send is in flight
func (a *App) Generating() bool {
	return a.generating.Load()
}

// Send appends prompt to the conversation, calls the model and appends its
// reply. An empty model selects the configured one.
//
// A missing credential fails before anything is appended. An unsupported
// model or a provider failure leaves the user message in the conversation.
func (a *App) Send(ctx context.Context, prompt, model string) (*Reply, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, internal.ErrEmptyPrompt
	}
	if !a.generating.CompareAndSwap(false, true) {
		return nil, internal.ErrGenerating
	}
	defer a.generating.Store(false)

	if model == "" {
		model = a.Settings().Model
	}

	res, err := a.Dispatcher.Resolve(model)
	if err != nil {
		a.appendMessage(internal.RoleUser, prompt)
		return nil, err
	}
	if a.Credentials.Get(res.Provider.String()) == "" {
		return nil, &internal.ConfigurationError{Provider: res.Provider.DisplayName()}
	}

	a.appendMessage(internal.RoleUser, prompt)
	a.rememberModel(model)

	text, err := a.Dispatcher.Send(ctx, model, a.Conversation.Messages())
	if err != nil {
		internal.LogDebug("Send to %s failed: %v", model, err)
		return nil, err
	}

	msg := a.appendMessage(internal.RoleAssistant, text)
	extracted := codeblock.Extract(text)
	if len(extracted) > 0 {
		a.applyCode(extracted)
	}

	return &Reply{Message: msg, Model: model, Extracted: extracted, Code: a.Code()}, nil
}

// NewChat archives the active conversation into history and starts a new one.
// It returns nil when there was nothing to archive.
func (a *App) NewChat() (*internal.ChatSession, error) {
	return a.Conversation.SnapshotAndArchive()
}

// LoadSession makes a copy of history entry index the active conversation
func (a *App) LoadSession(index int) (*internal.ChatSession, error) {
	session, err := a.Conversation.Session(index)
	if err != nil {
		return nil, err
	}
	if err := a.Conversation.LoadSession(session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ClearHistory removes all archived sessions
func (a *App) ClearHistory() error {
	return a.Conversation.ClearHistory()
}

// Status summarizes configuration for display
type Status struct {
	Model                string
	Configured           []string
	Connected            bool
	Messages             int
	HistorySessions      int
	HasCode              bool
	CodePolicy           string
	SanitizePreview      bool
	CurrentProvider      string
	CurrentProviderReady bool
}

// Status reports the connected state (any key stored), the current model and
// conversation sizes.
func (a *App) Status() Status {
	configured := a.Credentials.Configured()
	settings := a.Settings()
	st := Status{
		Model:           settings.Model,
		Configured:      configured,
		Connected:       len(configured) > 0,
		Messages:        a.Conversation.Len(),
		HistorySessions: len(a.Conversation.History()),
		HasCode:         !a.Code().IsEmpty(),
		CodePolicy:      settings.CodePolicy,
		SanitizePreview: settings.SanitizePreview,
	}
	if p, err := provider.ForModel(settings.Model); err == nil {
		st.CurrentProvider = p.DisplayName()
		st.CurrentProviderReady = a.Credentials.Get(p.String()) != ""
	}
	return st
}

// Reset wipes the whole store and returns the app to its initial state
func (a *App) Reset() error {
	if err := internal.ResetAll(a.KV); err != nil {
		return err
	}
	a.Conversation = internal.NewConversationStore(a.KV)
	a.settingsMu.Lock()
	a.settings = internal.DefaultSettings()
	a.settingsMu.Unlock()
	a.mu.Lock()
	a.code = codeblock.Code{}
	a.mu.Unlock()
	return nil
}

// appendMessage appends to the conversation; persistence failures are
// low-severity and only logged.
func (a *App) appendMessage(role internal.Role, content string) internal.Message {
	msg, err := a.Conversation.Append(role, content)
	if err != nil {
		internal.LogWarn("Failed to persist conversation: %v", err)
	}
	return msg
}

func (a *App) rememberModel(model string) {
	a.settingsMu.Lock()
	defer a.settingsMu.Unlock()
	if a.settings.Model == model {
		return
	}
	next := a.settings
	next.Model = model
	if err := a.saveSettings(next); err != nil {
		internal.LogWarn("Failed to save selected model: %v", err)
	}
}

func (a *App) applyCode(extracted codeblock.Partial) {
	policy, err := codeblock.ParsePolicy(a.Settings().CodePolicy)
	if err != nil {
		internal.LogWarn("%v, using %s", err, policy)
	}
	a.mu.Lock()
	a.code = a.code.Apply(extracted, policy)
	err = a.saveCode()
	a.mu.Unlock()
	if err != nil {
		internal.LogWarn("Failed to persist code buffers: %v", err)
	}
}

func (a *App) loadCode() error {
	raw, err := a.KV.Get(internal.KeyCurrentCode)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	var code codeblock.Code
	if err := json.Unmarshal([]byte(raw), &code); err != nil {
		return &internal.ParseError{Source: "kv", Key: internal.KeyCurrentCode, Err: err}
	}
	a.code = code
	return nil
}

// saveCode persists the buffers; callers hold mu
func (a *App) saveCode() error {
	if a.code.IsEmpty() {
		return a.KV.Delete(internal.KeyCurrentCode)
	}
	data, err := json.Marshal(a.code)
	if err != nil {
		return fmt.Errorf("failed to marshal code buffers: %w", err)
	}
	return a.KV.Set(internal.KeyCurrentCode, string(data))
}
