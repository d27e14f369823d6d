package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/sitechat/internal"
)

// JSONExporter exports the session's messages as a pretty-printed JSON array
type JSONExporter struct{}

// Export exports a session to JSON format
func (e *JSONExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	messages := session.Messages
	if messages == nil {
		messages = []internal.Message{}
	}
	return enc.Encode(messages)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
