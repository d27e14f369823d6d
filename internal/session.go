package internal

import "time"

// Role is the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message. Messages are values and are never edited in place.
type Message struct {
	Role      Role   `json:"role" yaml:"role"`
	Content   string `json:"content" yaml:"content"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"` // epoch ms
}

// ChatSession is an archived conversation
type ChatSession struct {
	ID        int64     `json:"id" yaml:"id"` // epoch ms at save time
	Messages  []Message `json:"messages" yaml:"messages"`
	Timestamp int64     `json:"timestamp" yaml:"timestamp"`
}

// GetTimestamp returns a time.Time from the timestamp
func (m Message) GetTimestamp() time.Time {
	return time.UnixMilli(m.Timestamp)
}

// GetTimestamp returns a time.Time from the timestamp
func (s *ChatSession) GetTimestamp() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// FirstMessage returns the content of the first message, used as a preview
func (s *ChatSession) FirstMessage() string {
	if len(s.Messages) == 0 {
		return "No messages"
	}
	return s.Messages[0].Content
}

func copyMessages(messages []Message) []Message {
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}
