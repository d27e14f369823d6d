package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/iksnae/sitechat/internal"
)

// HTMLExporter renders the Markdown transcript to a standalone HTML page
type HTMLExporter struct{}

var htmlPage = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Chat Session</title>
    <style>
        body { font-family: system-ui, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
        pre { background: #f4f4f4; padding: 1rem; overflow-x: auto; }
        hr { border: 0; border-top: 1px solid #ddd; }
    </style>
</head>
<body>
{{.}}
</body>
</html>
`))

// Export exports a session to HTML format. Message content is rendered as
// Markdown; raw HTML in messages is escaped, not passed through.
func (e *HTMLExporter) Export(session *internal.ChatSession, w io.Writer) error {
	var md bytes.Buffer
	writeMarkdown(session, &md)

	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := converter.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	// goldmark output has raw HTML disabled, so it is safe to embed as-is
	return htmlPage.Execute(w, template.HTML(body.String()))
}

// Extension returns the file extension for this format
func (e *HTMLExporter) Extension() string {
	return "html"
}
