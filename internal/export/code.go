package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/codeblock"
)

// WriteCodeFiles writes index.html, style.css and script.js into dir,
// skipping empty buffers. It returns the names written.
func WriteCodeFiles(dir string, code codeblock.Code) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &internal.ExportError{Format: "code", Path: dir, Err: err}
	}

	var written []string
	for _, lang := range codeblock.Languages {
		content := code.Get(lang)
		if content == "" {
			continue
		}
		path := filepath.Join(dir, lang.Filename())
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return written, &internal.ExportError{Format: "code", Path: path, Err: fmt.Errorf("write failed: %w", err)}
		}
		written = append(written, lang.Filename())
	}
	return written, nil
}
