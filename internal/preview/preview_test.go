package preview

import (
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/iksnae/sitechat/internal/codeblock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	code codeblock.Code
}

func (s *staticSource) Code() codeblock.Code {
	return s.code
}

func TestRender(t *testing.T) {
	doc := Render(codeblock.Code{HTML: "<h1>Hi</h1>", CSS: "h1{color:red}", JS: "console.log(1)"}, Options{})

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<html lang="en">`)
	assert.Contains(t, doc, `<meta charset="UTF-8">`)
	assert.Contains(t, doc, `<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	assert.Contains(t, doc, "<style>h1{color:red}</style>")
	assert.Contains(t, doc, "<script>console.log(1)</script>")
	assert.NotContains(t, doc, "<title>")

	bodyStart := strings.Index(doc, "<body>")
	require.Greater(t, bodyStart, 0)
	assert.Contains(t, doc[bodyStart:], "<h1>Hi</h1>")
}

func TestRender_Title(t *testing.T) {
	doc := Render(codeblock.Code{}, Options{Title: FullWindowTitle})
	assert.Contains(t, doc, "<title>Preview</title>")
}

func TestRender_ExtractRoundTrip(t *testing.T) {
	reply := "### HTML\n```html\n<main id=\"app\"></main>\n```\n### CSS\n```css\nmain { display: grid; }\n```\n### JavaScript\n```javascript\ndocument.getElementById('app').textContent = 'ok';\n```"
	code := codeblock.Code{}.Apply(codeblock.Extract(reply), codeblock.CarryOver)
	doc := Render(code, Options{})

	assert.Contains(t, doc, "<style>main { display: grid; }</style>")
	assert.Contains(t, doc, "<script>document.getElementById('app').textContent = 'ok';</script>")
	assert.Contains(t, doc, `<main id="app"></main>`)
}

func TestRender_Sanitize(t *testing.T) {
	code := codeblock.Code{
		HTML: `<p onclick="steal()">Hello</p><script>alert(1)</script>`,
		JS:   "alert(2)",
	}
	doc := Render(code, Options{Sanitize: true})

	assert.Contains(t, doc, "<p>Hello</p>")
	assert.NotContains(t, doc, "onclick")
	assert.NotContains(t, doc, "alert(1)")
	assert.NotContains(t, doc, "<script>")
}

func TestFrame(t *testing.T) {
	doc := Render(codeblock.Code{HTML: `<a href="#">"quoted" & 'single'</a>`, JS: "a+b"}, Options{})
	page, err := Frame(doc)
	require.NoError(t, err)

	assert.Contains(t, page, `sandbox="allow-scripts"`)

	m := regexp.MustCompile(`srcdoc="([^"]*)"`).FindStringSubmatch(page)
	require.Len(t, m, 2)
	assert.Equal(t, doc, html.UnescapeString(m[1]))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "preview.html")
	require.NoError(t, WriteFile(path, "<html></html>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestServer(t *testing.T) {
	source := &staticSource{code: codeblock.Code{HTML: "<p>v1</p>", CSS: "p{}"}}
	srv := httptest.NewServer(NewServer(source, false).Handler())
	defer srv.Close()

	get := func(path string) (int, string, http.Header) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body), resp.Header
	}

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"frame", "/", http.StatusOK, `sandbox="allow-scripts"`},
		{"full", "/full", http.StatusOK, "<title>Preview</title>"},
		{"html file", "/files/index.html", http.StatusOK, "<p>v1</p>"},
		{"css file", "/files/style.css", http.StatusOK, "p{}"},
		{"empty js", "/files/script.js", http.StatusNotFound, ""},
		{"unknown file", "/files/app.ts", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, header := get(tt.path)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.Contains(t, body, tt.wantBody)
			}
			assert.Equal(t, "no-store", header.Get("Cache-Control"))
		})
	}

	// Code changes are visible on the next request
	source.code.HTML = "<p>v2</p>"
	_, body, _ := get("/full")
	assert.Contains(t, body, "<p>v2</p>")
}
