package cmd

import (
	"fmt"

	"github.com/iksnae/sitechat/internal"
	"github.com/spf13/cobra"
)

var (
	historyYes bool
)

// historyCmd groups the saved chat commands
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show, load or clear saved chats",
}

var historyLoadCmd = &cobra.Command{
	Use:   "load <number>",
	Short: "Continue a saved chat",
	Long: `Make a copy of a saved chat the active conversation. The saved chat stays
in history; the current conversation is replaced without being archived
(use 'sitechat new' first to keep it).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseSessionNumber(args[0])
		if err != nil {
			return err
		}
		session, err := application.LoadSession(index)
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Loaded chat %d (%d messages): %s", index+1, len(session.Messages), truncate(session.FirstMessage(), 50)))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all saved chats",
	RunE: func(cmd *cobra.Command, args []string) error {
		n := len(application.Conversation.History())
		if n == 0 {
			internal.PrintInfo("No saved chats")
			return nil
		}
		ok, err := confirm(fmt.Sprintf("Delete %d saved chat(s)?", n), historyYes)
		if err != nil {
			return err
		}
		if !ok {
			internal.PrintInfo("Cancelled")
			return nil
		}
		if err := application.ClearHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		internal.PrintSuccess(fmt.Sprintf("Deleted %d saved chat(s)", n))
		return nil
	},
}

// newCmd archives the active conversation
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Save the current chat to history and start a new one",
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := application.NewChat()
		if err != nil {
			return fmt.Errorf("failed to save chat: %w", err)
		}
		if session == nil {
			internal.PrintInfo("Nothing to save; started a new chat")
			return nil
		}
		internal.PrintSuccess(fmt.Sprintf("Saved chat with %d messages; started a new chat", len(session.Messages)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(newCmd)
	historyCmd.AddCommand(historyLoadCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "Do not ask for confirmation")
}
