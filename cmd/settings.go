package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/provider"
	"github.com/spf13/cobra"
)

// settingsCmd groups the preference commands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := application.Settings()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\n", titleStyle.Render("model"), s.Model)
		_, _ = fmt.Fprintf(w, "%s\t%s\n", titleStyle.Render("code-policy"), s.CodePolicy)
		_, _ = fmt.Fprintf(w, "%s\t%t\n", titleStyle.Render("sanitize-preview"), s.SanitizePreview)
		return w.Flush()
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Change a preference",
	Long: `Change a preference. Names:
  model              model id used when none is given (see: sitechat models)
  code-policy        carry-over keeps code a reply does not mention; reset clears it
  sanitize-preview   true strips scripts and event handlers from the preview`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, value := args[0], args[1]
		s := application.Settings()

		switch name {
		case "model":
			if err := application.SelectModel(value); err != nil {
				return sendError(err)
			}
			internal.PrintSuccess(fmt.Sprintf("model set to %s", value))
			return nil
		case "code-policy":
			s.CodePolicy = value
		case "sanitize-preview":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid value for sanitize-preview %q (expected true or false)", value)
			}
			s.SanitizePreview = b
		default:
			return fmt.Errorf("unknown setting %q (expected model, code-policy or sanitize-preview)", name)
		}

		if err := application.UpdateSettings(s); err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("%s set to %s", name, value))
		return nil
	},
}

// modelsCmd lists the selectable models
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models by provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		current := application.Settings().Model
		for _, p := range provider.All {
			status := warningStyle.Render("no key")
			if application.Credentials.Get(p.String()) != "" {
				status = successStyle.Render("ready")
			}
			fmt.Fprintf(out, "%s %s\n", sectionStyle.Render(p.DisplayName()), status)
			for _, id := range application.Dispatcher.Models(p) {
				marker := " "
				if id == current {
					marker = countStyle.Render("*")
				}
				fmt.Fprintf(out, "  %s %s\n", marker, id)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(modelsCmd)
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}
