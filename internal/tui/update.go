package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/codeblock"
)

// Update routes messages to their handlers
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case replyMsg:
		return m.handleReply(msg)
	case errMsg:
		return m.handleError(msg)
	case previewOpenedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("Preview failed: %v", msg.err)
		} else {
			m.notice = "Preview opened in browser"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.input.Width = max(msg.Width-4, 10)

	// header, status bar, notice, input and help take 6 lines
	m.viewport.Width = msg.Width
	m.viewport.Height = max(msg.Height-6, 3)
	m.ready = true
	m.refresh()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		return m.submit()

	case "tab":
		return m.cycleModel(), nil

	case "ctrl+n":
		if m.sending {
			m.notice = "Wait for the current response before starting a new chat"
			return m, nil
		}
		session, err := m.app.NewChat()
		switch {
		case err != nil:
			m.notice = fmt.Sprintf("Failed to save chat: %v", err)
		case session == nil:
			m.notice = "Started a new chat"
		default:
			m.notice = "Chat saved to history"
		}
		if err == nil {
			m.transcript = nil
			m.refresh()
		}
		return m, nil

	case "ctrl+o":
		if m.opts.OpenPreview == nil {
			m.notice = "Preview is not available"
			return m, nil
		}
		if m.app.Code().IsEmpty() {
			m.notice = "No code to preview yet"
			return m, nil
		}
		return m, m.openPreview()

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.input.Value())
	if prompt == "" {
		return m, nil
	}
	if m.sending {
		m.notice = internal.ErrGenerating.Error()
		return m, nil
	}

	m.sending = true
	m.notice = ""
	m.input.Reset()
	m.transcript = append(m.transcript, entry{role: internal.RoleUser, content: prompt})
	m.refresh()
	return m, tea.Batch(m.sendPrompt(prompt, m.model), m.spinner.Tick)
}

func (m Model) cycleModel() Model {
	if len(m.models) == 0 {
		return m
	}
	next := m.models[0]
	for i, id := range m.models {
		if id == m.model {
			next = m.models[(i+1)%len(m.models)]
			break
		}
	}
	if err := m.app.SelectModel(next); err != nil {
		m.notice = fmt.Sprintf("Failed to select %s: %v", next, err)
		return m
	}
	m.model = next
	m.notice = ""
	return m
}

func (m Model) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	m.sending = false
	m.transcript = append(m.transcript, entry{role: internal.RoleAssistant, content: msg.reply.Message.Content})
	if len(msg.reply.Extracted) > 0 {
		m.notice = "Updated " + extractedSummary(msg.reply.Extracted)
	}
	m.refresh()
	return m, nil
}

func (m Model) handleError(msg errMsg) (tea.Model, tea.Cmd) {
	m.sending = false

	var cfgErr *internal.ConfigurationError
	if errors.As(msg.err, &cfgErr) {
		// nothing was appended, so drop the pending prompt
		if n := len(m.transcript); n > 0 && m.transcript[n-1].role == internal.RoleUser {
			m.transcript = m.transcript[:n-1]
		}
		m.notice = fmt.Sprintf("%s. Run: sitechat keys set %s", cfgErr.Error(), strings.ToLower(cfgErr.Provider))
		m.refresh()
		return m, nil
	}

	m.transcript = append(m.transcript, entry{
		role:    internal.RoleAssistant,
		content: "Error: " + msg.err.Error(),
		isError: true,
	})
	m.refresh()
	return m, nil
}

// refresh re-renders the transcript into the viewport and scrolls to the end
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func extractedSummary(p codeblock.Partial) string {
	var names []string
	for _, lang := range p.Languages() {
		names = append(names, lang.String())
	}
	return strings.Join(names, ", ")
}
