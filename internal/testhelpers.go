package internal

// CreateTestSession creates a test session with a user prompt and an assistant reply
func CreateTestSession(id int64) *ChatSession {
	return &ChatSession{
		ID:        id,
		Timestamp: id,
		Messages: []Message{
			{
				Role:      RoleUser,
				Content:   "Build a landing page",
				Timestamp: id - 2000,
			},
			{
				Role:      RoleAssistant,
				Content:   "Here it is:\n```html\n<h1>Welcome</h1>\n```",
				Timestamp: id - 1000,
			},
		},
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id int64, messages []Message) *ChatSession {
	return &ChatSession{
		ID:        id,
		Timestamp: id,
		Messages:  messages,
	}
}
