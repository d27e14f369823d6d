package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/app"
	"github.com/spf13/cobra"
)

var (
	sendModel string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <prompt>",
	Short: "Send one prompt and print the reply",
	Long: `Send a prompt to the selected model as part of the active conversation.

Code blocks in the reply update the current html, css and javascript.
Use --model to pick another model; the choice is remembered.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prompt := strings.Join(args, " ")
		model := sendModel
		if model == "" {
			model = application.Settings().Model
		}

		var reply *app.Reply
		err := internal.ShowProgress(cmd.Context(), fmt.Sprintf("Waiting for %s", model), func() error {
			var sendErr error
			reply, sendErr = application.Send(cmd.Context(), prompt, model)
			return sendErr
		})
		if err != nil {
			return sendError(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, renderMarkdown(reply.Message.Content))
		if len(reply.Extracted) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, idStyle.Render("Updated code: "+extractedNames(reply)+" (sitechat preview --open)"))
		}
		return nil
	},
}

// sendError adds a hint to configuration errors
func sendError(err error) error {
	var cfgErr *internal.ConfigurationError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("%w (run: sitechat keys set %s)", err, strings.ToLower(cfgErr.Provider))
	}
	var unsupported *internal.UnsupportedModelError
	if errors.As(err, &unsupported) {
		return fmt.Errorf("%w (see: sitechat models)", err)
	}
	return err
}

func extractedNames(reply *app.Reply) string {
	var names []string
	for _, lang := range reply.Extracted.Languages() {
		names = append(names, lang.String())
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendModel, "model", "m", "", "Model id (default: last used model)")
}
