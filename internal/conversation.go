package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// ConversationStore owns the active conversation and the archived chat history.
// History is ordered newest first and only ever grows at the head.
type ConversationStore struct {
	kv      KeyValueStore
	now     func() time.Time
	active  []Message
	history []ChatSession
}

// NewConversationStore loads history and the active conversation from kv.
// Unparseable persisted data is logged and replaced by an empty value.
func NewConversationStore(kv KeyValueStore) *ConversationStore {
	cs := &ConversationStore{kv: kv, now: time.Now}

	if err := loadJSON(kv, KeyChatHistory, &cs.history); err != nil {
		LogWarn("Failed to load chat history, starting empty: %v", err)
		cs.history = nil
	}
	if err := loadJSON(kv, KeyCurrentConversation, &cs.active); err != nil {
		LogWarn("Failed to load current conversation, starting empty: %v", err)
		cs.active = nil
	}
	return cs
}

// SetClock replaces the time source, for tests
func (cs *ConversationStore) SetClock(now func() time.Time) {
	cs.now = now
}

// Append adds a message stamped with the current time to the active conversation.
// The message is kept in memory even if persisting it fails.
func (cs *ConversationStore) Append(role Role, content string) (Message, error) {
	msg := Message{Role: role, Content: content, Timestamp: cs.now().UnixMilli()}
	cs.active = append(cs.active, msg)
	return msg, cs.saveActive()
}

// Messages returns a copy of the active conversation
func (cs *ConversationStore) Messages() []Message {
	return copyMessages(cs.active)
}

// Len returns the number of messages in the active conversation
func (cs *ConversationStore) Len() int {
	return len(cs.active)
}

// SnapshotAndArchive moves the active conversation to the head of the history.
// It returns nil and does nothing when the active conversation is empty.
func (cs *ConversationStore) SnapshotAndArchive() (*ChatSession, error) {
	if len(cs.active) == 0 {
		return nil, nil
	}

	ts := cs.now().UnixMilli()
	session := ChatSession{
		ID:        ts,
		Messages:  copyMessages(cs.active),
		Timestamp: ts,
	}
	history := append([]ChatSession{session}, cs.history...)
	if err := cs.saveHistory(history); err != nil {
		return nil, err
	}
	cs.history = history

	cs.active = nil
	if err := cs.saveActive(); err != nil {
		return &session, err
	}
	return &session, nil
}

// History returns a copy of the archived sessions, newest first
func (cs *ConversationStore) History() []ChatSession {
	out := make([]ChatSession, len(cs.history))
	for i, s := range cs.history {
		s.Messages = copyMessages(s.Messages)
		out[i] = s
	}
	return out
}

// Session returns the archived session at index (0 is the newest)
func (cs *ConversationStore) Session(index int) (ChatSession, error) {
	if index < 0 || index >= len(cs.history) {
		return ChatSession{}, fmt.Errorf("no session at index %d (history has %d)", index, len(cs.history))
	}
	s := cs.history[index]
	s.Messages = copyMessages(s.Messages)
	return s, nil
}

// ClearHistory removes every archived session
func (cs *ConversationStore) ClearHistory() error {
	if err := cs.saveHistory(nil); err != nil {
		return err
	}
	cs.history = nil
	return nil
}

// LoadSession replaces the active conversation with a copy of the session's
// messages. The session stays in history.
func (cs *ConversationStore) LoadSession(session ChatSession) error {
	cs.active = copyMessages(session.Messages)
	return cs.saveActive()
}

func (cs *ConversationStore) saveHistory(history []ChatSession) error {
	if history == nil {
		history = []ChatSession{}
	}
	return saveJSON(cs.kv, KeyChatHistory, history)
}

func (cs *ConversationStore) saveActive() error {
	if len(cs.active) == 0 {
		return cs.kv.Delete(KeyCurrentConversation)
	}
	return saveJSON(cs.kv, KeyCurrentConversation, cs.active)
}

func loadJSON(kv KeyValueStore, key string, v interface{}) error {
	raw, err := kv.Get(key)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return &ParseError{Source: "kv", Key: key, Err: err}
	}
	return nil
}

func saveJSON(kv KeyValueStore, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return kv.Set(key, string(data))
}
