package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/sitechat/internal"
	"github.com/spf13/cobra"
)

var (
	limit int
	since string
)

var (
	// Styles for show command
	sessionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	sessionMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// historyShowCmd represents the history show command
var historyShowCmd = &cobra.Command{
	Use:   "show [number]",
	Short: "Show the messages of a saved chat",
	Long: `Display the messages of a saved chat by its number in 'history list'.
Without a number the active conversation is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var session internal.ChatSession
		title := "Active conversation"
		if len(args) == 0 {
			session = internal.ChatSession{
				Messages:  application.Conversation.Messages(),
				Timestamp: time.Now().UnixMilli(),
			}
		} else {
			index, err := parseSessionNumber(args[0])
			if err != nil {
				return err
			}
			session, err = application.Conversation.Session(index)
			if err != nil {
				return err
			}
			title = fmt.Sprintf("Chat %d", index+1)
		}

		messages := session.Messages
		if since != "" {
			sinceTime, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
			filtered := make([]internal.Message, 0, len(messages))
			for _, msg := range messages {
				if !msg.GetTimestamp().Before(sinceTime) {
					filtered = append(filtered, msg)
				}
			}
			messages = filtered
		}

		out := cmd.OutOrStdout()
		displaySessionHeader(out, title, &session, len(messages))

		total := len(messages)
		if limit > 0 && limit < total {
			messages = messages[:limit]
		}
		for i, msg := range messages {
			displayMessage(out, i+1, msg, total)
		}

		if limit > 0 && limit < total {
			fmt.Fprintln(out)
			fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", total-limit)))
		}
		return nil
	},
}

// parseSessionNumber converts a 1-based list number to a history index
func parseSessionNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid chat number %q (see: sitechat history list)", arg)
	}
	return n - 1, nil
}

func displaySessionHeader(out io.Writer, title string, session *internal.ChatSession, count int) {
	fmt.Fprintln(out, sessionHeaderStyle.Render(fmt.Sprintf("💬 %s", title)))

	metaParts := []string{fmt.Sprintf("Messages: %d", count)}
	if session.Timestamp > 0 && session.ID != 0 {
		metaParts = append([]string{fmt.Sprintf("Saved: %s", session.GetTimestamp().Format(time.RFC3339))}, metaParts...)
	}
	fmt.Fprintln(out, sessionMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Role {
	case internal.RoleUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 User"
	case internal.RoleAssistant:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	default:
		actorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		actorLabel = fmt.Sprintf("🔧 %s", msg.Role)
	}

	header := actorStyle.Render(actorLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if msg.Timestamp > 0 {
		header += " " + timestampStyle.Render(msg.GetTimestamp().Format("15:04:05"))
	}
	fmt.Fprintln(out, header)

	content := strings.TrimSpace(msg.Content)
	switch {
	case content == "":
		fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	case msg.Role == internal.RoleAssistant:
		fmt.Fprintln(out, renderMarkdown(content))
	default:
		fmt.Fprintln(out, messageContentStyle.Render(wrapText(content, 80)))
	}
	fmt.Fprintln(out)
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyShowCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	historyShowCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (RFC3339)")
}
