package app

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/codeblock"
	"github.com/iksnae/sitechat/internal/provider"
	"github.com/iksnae/sitechat/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, fp *testutil.FakeProvider) (*App, internal.KeyValueStore) {
	t.Helper()
	kv := internal.NewStorage(testutil.CreateTestDB(t))
	return New(kv, provider.Options{Endpoints: fp.Endpoints()}), kv
}

func TestNew_LoadsPersistedState(t *testing.T) {
	db := testutil.CreateTestDB(t)
	testutil.InsertKV(t, db, internal.KeyCurrentCode, `{"html":"<p>saved</p>","css":"","js":""}`)

	a := New(internal.NewStorage(db), provider.Options{})

	assert.Equal(t, "openai-gpt-4o-mini", a.Settings().Model)
	assert.Equal(t, "<p>saved</p>", a.Code().HTML)
	assert.Len(t, a.Conversation.History(), 1)
}

func TestNew_CorruptStateFallsBack(t *testing.T) {
	db := testutil.CreateInMemoryDB(t)
	testutil.InsertKV(t, db, internal.KeySettings, "{broken")
	testutil.InsertKV(t, db, internal.KeyCurrentCode, "{broken")

	a := New(internal.NewStorage(db), provider.Options{})

	assert.Equal(t, internal.DefaultSettings(), a.Settings())
	assert.True(t, a.Code().IsEmpty())
}

func TestSend_Success(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, testutil.OpenAIReply(t, testutil.SampleReply))
	a, kv := newTestApp(t, fp)

	reply, err := a.Send(context.Background(), "  Build a page  ", "")
	require.NoError(t, err)

	assert.Equal(t, "openai-gpt-4o-mini", reply.Model)
	assert.Equal(t, internal.RoleAssistant, reply.Message.Role)
	assert.Len(t, reply.Extracted, 3)
	assert.Equal(t, codeblock.Code{
		HTML: "<h1>Hello</h1>",
		CSS:  "h1 { color: teal; }",
		JS:   "console.log('ready');",
	}, reply.Code)

	messages := a.Conversation.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, "Build a page", messages[0].Content)

	// The request carried the system prompt then the user message
	reqs := fp.Requests()
	require.Len(t, reqs, 1)
	sent := reqs[0].Body["messages"].([]interface{})
	require.Len(t, sent, 2)
	assert.Equal(t, provider.SystemPrompt, sent[0].(map[string]interface{})["content"])

	raw, err := kv.Get(internal.KeyCurrentCode)
	require.NoError(t, err)
	assert.Contains(t, raw, "<h1>Hello</h1>")
	assert.False(t, a.Generating())
}

func TestSend_CarryOverAndReset(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, testutil.OpenAIReply(t, testutil.SampleReply))
	a, _ := newTestApp(t, fp)

	_, err := a.Send(context.Background(), "Build a page", "")
	require.NoError(t, err)

	fp.Reply(http.StatusOK, testutil.OpenAIReply(t, "```html\n<h2>New</h2>\n```"))
	reply, err := a.Send(context.Background(), "Change the heading", "")
	require.NoError(t, err)
	assert.Equal(t, "<h2>New</h2>", reply.Code.HTML)
	assert.Equal(t, "h1 { color: teal; }", reply.Code.CSS)

	s := a.Settings()
	s.CodePolicy = internal.CodePolicyReset
	require.NoError(t, a.UpdateSettings(s))

	reply, err = a.Send(context.Background(), "Again", "")
	require.NoError(t, err)
	assert.Equal(t, codeblock.Code{HTML: "<h2>New</h2>"}, reply.Code)

	// A reply without blocks leaves the buffers alone
	fp.Reply(http.StatusOK, testutil.OpenAIReply(t, "No code this time"))
	reply, err = a.Send(context.Background(), "Explain", "")
	require.NoError(t, err)
	assert.Empty(t, reply.Extracted)
	assert.Equal(t, "<h2>New</h2>", a.Code().HTML)
}

func TestSend_MissingCredential(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, "{}")
	a, _ := newTestApp(t, fp)

	_, err := a.Send(context.Background(), "Hi", "groq-llama-3.1-8b")

	var cfgErr *internal.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "Groq", cfgErr.Provider)
	assert.Equal(t, 0, a.Conversation.Len())
	assert.Empty(t, fp.Requests())
	assert.Equal(t, "openai-gpt-4o-mini", a.Settings().Model)
}

func TestSend_UnsupportedModel(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, "{}")
	a, _ := newTestApp(t, fp)

	_, err := a.Send(context.Background(), "Hi", "mistral-large")

	var unsupported *internal.UnsupportedModelError
	require.True(t, errors.As(err, &unsupported))
	assert.Equal(t, 1, a.Conversation.Len())
	assert.Empty(t, fp.Requests())
}

func TestSend_ProviderErrorKeepsPrompt(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusTooManyRequests, `{"error":{"message":"Rate limit reached"}}`)
	a, _ := newTestApp(t, fp)

	_, err := a.Send(context.Background(), "Hi", "")

	var provErr *internal.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
	assert.Equal(t, "Rate limit reached", provErr.Error())

	messages := a.Conversation.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, internal.RoleUser, messages[0].Role)
	assert.False(t, a.Generating())
}

func TestSend_EmptyPrompt(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, "{}")
	a, _ := newTestApp(t, fp)

	_, err := a.Send(context.Background(), " \n\t", "")
	assert.ErrorIs(t, err, internal.ErrEmptyPrompt)
	assert.Equal(t, 0, a.Conversation.Len())
}

func TestSend_Generating(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, "{}")
	a, _ := newTestApp(t, fp)

	a.generating.Store(true)
	_, err := a.Send(context.Background(), "Hi", "")
	assert.ErrorIs(t, err, internal.ErrGenerating)
	assert.Empty(t, fp.Requests())
	assert.True(t, a.Generating())
}

func TestSend_RemembersModel(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, testutil.OpenAIReply(t, "ok"))
	a, kv := newTestApp(t, fp)

	_, err := a.Send(context.Background(), "Hi", "openai-gpt-4o")
	require.NoError(t, err)
	assert.Equal(t, "openai-gpt-4o", a.Settings().Model)

	reloaded, err := internal.LoadSettings(kv)
	require.NoError(t, err)
	assert.Equal(t, "openai-gpt-4o", reloaded.Model)
}

func TestSelectModel(t *testing.T) {
	a, _ := newTestApp(t, testutil.NewFakeProvider(t, http.StatusOK, "{}"))

	require.NoError(t, a.SelectModel("gemini-2.0-flash"))
	assert.Equal(t, "gemini-2.0-flash", a.Settings().Model)

	err := a.SelectModel("gpt-4")
	assert.Error(t, err)
	assert.Equal(t, "gemini-2.0-flash", a.Settings().Model)

	models := a.Models()
	assert.Contains(t, models, "claude-3.5-sonnet")
	assert.Equal(t, "gemini-1.5-flash", models[0])
}

func TestSend_ConcurrentSelectModel(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, testutil.OpenAIReply(t, "ok"))
	fp.Delay(50 * time.Millisecond)
	a, kv := newTestApp(t, fp)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := a.Send(context.Background(), "Hi", "openai-gpt-4o")
		assert.NoError(t, err)
	}()
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, a.SelectModel("groq-llama-3.1-8b"))
		}()
	}
	wg.Wait()

	// Memory and store agree on whichever write landed last
	persisted, err := internal.LoadSettings(kv)
	require.NoError(t, err)
	assert.Equal(t, persisted, a.Settings())
	assert.Contains(t, []string{"openai-gpt-4o", "groq-llama-3.1-8b"}, persisted.Model)
}

func TestNewChatAndLoadSession(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, testutil.OpenAIReply(t, testutil.SampleReply))
	a, _ := newTestApp(t, fp)

	session, err := a.NewChat()
	require.NoError(t, err)
	assert.Nil(t, session)

	_, err = a.Send(context.Background(), "Build a page", "")
	require.NoError(t, err)

	session, err = a.NewChat()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Len(t, session.Messages, 2)
	assert.Equal(t, 0, a.Conversation.Len())
	assert.Len(t, a.Conversation.History(), 2)
	assert.False(t, a.Code().IsEmpty())

	loaded, err := a.LoadSession(1)
	require.NoError(t, err)
	assert.Equal(t, "Build a landing page", loaded.FirstMessage())
	assert.Equal(t, 2, a.Conversation.Len())

	_, err = a.LoadSession(5)
	assert.Error(t, err)

	require.NoError(t, a.ClearHistory())
	assert.Empty(t, a.Conversation.History())
}

func TestStatus(t *testing.T) {
	a, _ := newTestApp(t, testutil.NewFakeProvider(t, http.StatusOK, "{}"))

	st := a.Status()
	assert.Equal(t, "openai-gpt-4o-mini", st.Model)
	assert.Equal(t, []string{"openai"}, st.Configured)
	assert.True(t, st.Connected)
	assert.Equal(t, "OpenAI", st.CurrentProvider)
	assert.True(t, st.CurrentProviderReady)
	assert.Equal(t, 1, st.HistorySessions)
	assert.False(t, st.HasCode)

	require.NoError(t, a.SelectModel("claude-3-haiku"))
	st = a.Status()
	assert.Equal(t, "Anthropic", st.CurrentProvider)
	assert.False(t, st.CurrentProviderReady)
}

func TestReset(t *testing.T) {
	fp := testutil.NewFakeProvider(t, http.StatusOK, testutil.OpenAIReply(t, testutil.SampleReply))
	a, kv := newTestApp(t, fp)

	_, err := a.Send(context.Background(), "Build a page", "")
	require.NoError(t, err)

	require.NoError(t, a.Reset())

	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, internal.DefaultSettings(), a.Settings())
	assert.True(t, a.Code().IsEmpty())
	assert.Equal(t, 0, a.Conversation.Len())
	assert.False(t, a.Status().Connected)
}
