package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/sitechat/internal"
	"github.com/spf13/cobra"
)

var (
	listWidth int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// historyListCmd represents the history list command
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved chats",
	Long:  `List archived chats, newest first. Use the number with 'history show' or 'history load'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		displaySessions(cmd.OutOrStdout(), application.Conversation.History(), listWidth)
		return nil
	},
}

func displaySessions(out io.Writer, sessions []internal.ChatSession, width int) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No saved chats"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d saved chat(s)", len(sessions))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("#")+"\t"+titleStyle.Render("First message")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Saved")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", width+40))

	for i := range sessions {
		s := &sessions[i]
		num := idStyle.Render(strconv.Itoa(i + 1))
		preview := truncate(s.FirstMessage(), width)
		count := countStyle.Render(strconv.Itoa(len(s.Messages)))
		saved := dateStyle.Render(formatWhen(s.GetTimestamp()))
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", num, preview, count, saved)
	}

	_ = w.Flush()
	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use `sitechat history show 1` to read a chat or `sitechat history load 1` to continue it"))
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyListCmd.Flags().IntVarP(&listWidth, "width", "w", 50, "Maximum width of the message preview")
}
