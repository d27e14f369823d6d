package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
	"github.com/iksnae/sitechat/internal"
	"github.com/mattn/go-runewidth"
)

// renderMarkdown renders a reply for the terminal. Off a terminal the raw
// markdown is returned so output stays pipeable.
func renderMarkdown(text string) string {
	if !internal.IsTerminal() {
		return text
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

// highlight colors source for the terminal using the lexer for tag
func highlight(source, tag string) string {
	if !internal.IsTerminal() {
		return source
	}
	var buf bytes.Buffer
	if err := quick.Highlight(&buf, source, tag, "terminal256", "monokai"); err != nil {
		internal.LogDebug("Highlighting %s failed: %v", tag, err)
		return source
	}
	return buf.String()
}

// truncate shortens s to width display cells, collapsing newlines
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, width, "...")
}

// formatWhen formats t relative to now, coarser the older it is
func formatWhen(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return "Today " + t.Format("15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

// confirm asks a yes/no question. force skips the prompt; off a terminal
// the answer is no.
func confirm(question string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	if !internal.IsTerminal() {
		return false, fmt.Errorf("refusing to %s without a terminal (use --yes)", strings.ToLower(strings.TrimSuffix(question, "?")))
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: question}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
