// Package preview turns extracted code buffers into a standalone HTML
// document and delivers it in a sandboxed frame or a full browser window.
package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/sitechat/internal/codeblock"
	"github.com/microcosm-cc/bluemonday"
)

// FullWindowTitle is the document title used for full-window delivery
const FullWindowTitle = "Preview"

// Options controls document rendering
type Options struct {
	// Title is emitted as <title> when non-empty
	Title string

	// Sanitize runs the HTML buffer through a UGC policy and drops the script.
	// Off by default: generated code runs as written.
	Sanitize bool
}

// Render builds the preview document from code. Buffers are inserted
// verbatim unless opts.Sanitize is set.
func Render(code codeblock.Code, opts Options) string {
	body := code.HTML
	if opts.Sanitize {
		body = bluemonday.UGCPolicy().Sanitize(body)
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("    <meta charset=\"UTF-8\">\n")
	b.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	if opts.Title != "" {
		fmt.Fprintf(&b, "    <title>%s</title>\n", template.HTMLEscapeString(opts.Title))
	}
	fmt.Fprintf(&b, "    <style>%s</style>\n", code.CSS)
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n")
	if !opts.Sanitize {
		fmt.Fprintf(&b, "    <script>%s</script>\n", code.JS)
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

var frameTemplate = template.Must(template.New("frame").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>sitechat preview</title>
    <style>
        html, body { margin: 0; height: 100%; }
        iframe { border: 0; width: 100%; height: 100%; }
    </style>
</head>
<body>
    <iframe sandbox="allow-scripts" srcdoc="{{.}}"></iframe>
</body>
</html>
`))

// Frame wraps doc in a shell page that shows it in an iframe sandboxed to
// scripts only. The document is attribute-escaped into srcdoc.
func Frame(doc string) (string, error) {
	var buf bytes.Buffer
	if err := frameTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("failed to render preview frame: %w", err)
	}
	return buf.String(), nil
}

// WriteFile writes doc to path, creating parent directories
func WriteFile(path, doc string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
