package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/iksnae/sitechat/internal"
)

// View renders the whole screen
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("sitechat"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter send • tab model • ctrl+n new chat • ctrl+o preview • esc quit"))
	return b.String()
}

func (m Model) statusLine() string {
	status := fmt.Sprintf("Model: %s", m.model)
	if m.sending {
		status = fmt.Sprintf("%s %s generating...", status, m.spinner.View())
	}
	return helpStyle.Render(status)
}

func (m *Model) renderTranscript() string {
	if len(m.transcript) == 0 {
		return helpStyle.Render("Ask for a web page and the HTML, CSS and JavaScript will be collected for preview.")
	}

	var b strings.Builder
	for _, e := range m.transcript {
		switch {
		case e.isError:
			b.WriteString(errorLineStyle.Render(e.content))
			b.WriteString("\n\n")
		case e.role == internal.RoleUser:
			b.WriteString(userStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(e.content)
			b.WriteString("\n\n")
		default:
			b.WriteString(assistantStyle.Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(e.content))
			b.WriteString("\n\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderMarkdown renders an assistant reply with glamour, falling back to plain text
func (m *Model) renderMarkdown(text string) string {
	width := max(m.width-4, 20)
	if m.renderer == nil || m.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return text
		}
		m.renderer, m.rendererWidth = r, width
	}

	rendered, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}
