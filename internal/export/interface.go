package export

import (
	"fmt"
	"io"
	"time"

	"github.com/iksnae/sitechat/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(session *internal.ChatSession, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, md, yaml, html)", format)
	}
}

// Filename returns the default export filename, chat-export-{epoch ms}.{ext}
func Filename(at time.Time, e Exporter) string {
	return fmt.Sprintf("chat-export-%d.%s", at.UnixMilli(), e.Extension())
}
