// Package tui is the interactive chat screen: a transcript, a prompt line and
// a status bar showing the selected model.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/app"
)

// Options configure the chat screen
type Options struct {
	// OpenPreview shows the current code in a browser. ctrl+o is disabled when nil.
	OpenPreview func() error
}

// entry is one transcript line. Error entries are shown but never persisted.
type entry struct {
	role    internal.Role
	content string
	isError bool
}

// Model is the chat screen state
type Model struct {
	app  *app.App
	opts Options
	ctx  context.Context

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	transcript []entry
	models     []string
	model      string
	sending    bool
	notice     string

	width  int
	height int
	ready  bool

	renderer      *glamour.TermRenderer
	rendererWidth int
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	assistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// New builds the chat screen over a, seeding the transcript from the active conversation
func New(ctx context.Context, a *app.App, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Describe the page you want to build..."
	ti.Prompt = "> "
	ti.CharLimit = 4000
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		app:      a,
		opts:     opts,
		ctx:      ctx,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  s,
		models:   a.Models(),
		model:    a.Settings().Model,
	}
	for _, msg := range a.Conversation.Messages() {
		m.transcript = append(m.transcript, entry{role: msg.Role, content: msg.Content})
	}
	return m
}

// Init starts the cursor blink
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Run starts the chat screen on the alternate screen and blocks until it quits
func Run(ctx context.Context, a *app.App, opts Options) error {
	p := tea.NewProgram(New(ctx, a, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
