package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// sendPrompt runs the request off the event loop
func (m *Model) sendPrompt(prompt, model string) tea.Cmd {
	a, ctx := m.app, m.ctx
	return func() tea.Msg {
		reply, err := a.Send(ctx, prompt, model)
		if err != nil {
			return errMsg{err: err}
		}
		return replyMsg{reply: reply}
	}
}

func (m *Model) openPreview() tea.Cmd {
	open := m.opts.OpenPreview
	return func() tea.Msg {
		return previewOpenedMsg{err: open()}
	}
}
