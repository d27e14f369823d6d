package cmd

import (
	"fmt"

	"github.com/iksnae/sitechat/internal"
	"github.com/spf13/cobra"
)

var (
	resetYes bool
)

// resetCmd wipes every stored key
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all keys, chats, settings and code",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm("Delete all API keys, chats, settings and code?", resetYes)
		if err != nil {
			return err
		}
		if !ok {
			internal.PrintInfo("Cancelled")
			return nil
		}
		if err := application.Reset(); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		internal.PrintSuccess("All data deleted")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVarP(&resetYes, "yes", "y", false, "Do not ask for confirmation")
}
