package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/sitechat/internal/provider"
	"github.com/spf13/cobra"
)

var (
	healthcheckVerbose bool
	healthcheckTest    bool
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check that sitechat is configured and can reach its providers",
	Long: `Check the health of sitechat by verifying:
  • Database access
  • Saved settings and the selected model
  • Which providers have an API key
  • With --test, a live request to every configured provider`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 sitechat Health Check"))
		fmt.Fprintln(out)

		// Step 1: Database
		fmt.Fprintln(out, infoStyle.Render("Step 1: Checking database..."))
		if err := db.PingContext(cmd.Context()); err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Database not reachable:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		keys, err := application.KV.Keys()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to read database:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		fmt.Fprintln(out, successStyle.Render("✅ Database readable"))
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Path: %s\n", cfg.DatabasePath)
			fmt.Fprintf(out, "   Keys stored: %d\n", len(keys))
		}
		fmt.Fprintln(out)

		// Step 2: Settings and model
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking settings..."))
		st := application.Status()
		if _, err := application.Dispatcher.Resolve(st.Model); err != nil {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Selected model is not supported:"), err)
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Model %s (%s)", st.Model, st.CurrentProvider)))
		}
		if healthcheckVerbose {
			fmt.Fprintf(out, "   Code policy: %s\n", st.CodePolicy)
			fmt.Fprintf(out, "   Sanitize preview: %t\n", st.SanitizePreview)
			fmt.Fprintf(out, "   Messages: %d, saved chats: %d\n", st.Messages, st.HistorySessions)
		}
		fmt.Fprintln(out)

		// Step 3: Keys
		fmt.Fprintln(out, infoStyle.Render("Step 3: Checking API keys..."))
		if !st.Connected {
			fmt.Fprintln(out, warningStyle.Render("⚠️  Not Configured: no API keys stored"))
			fmt.Fprintln(out, "   Run: sitechat keys set <provider>")
		} else {
			fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Connected: %d provider(s) configured", len(st.Configured))))
			if healthcheckVerbose {
				for _, name := range st.Configured {
					fmt.Fprintf(out, "   • %s\n", name)
				}
			}
		}
		if st.CurrentProvider != "" && !st.CurrentProviderReady {
			fmt.Fprintln(out, warningStyle.Render(fmt.Sprintf("⚠️  %s API key not configured for the selected model", st.CurrentProvider)))
		}
		fmt.Fprintln(out)

		// Step 4: Live connections
		failed := 0
		if healthcheckTest {
			fmt.Fprintln(out, infoStyle.Render("Step 4: Testing provider connections..."))
			for _, name := range st.Configured {
				p, err := provider.ParseProvider(name)
				if err != nil {
					continue
				}
				if _, err := application.Dispatcher.TestConnection(cmd.Context(), p, ""); err != nil {
					failed++
					fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %s:", p.DisplayName())), err)
					continue
				}
				fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ %s connected", p.DisplayName())))
			}
			fmt.Fprintln(out)
		}

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)

		switch {
		case failed > 0:
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			return fmt.Errorf("health check failed: %d provider connection(s) failed", failed)
		case !st.CurrentProviderReady:
			fmt.Fprintln(out, warningStyle.Render("⚠️  Add an API key for the selected model to start chatting"))
			return nil
		default:
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.Flags().BoolVarP(&healthcheckVerbose, "verbose", "v", false, "Show detailed diagnostic information")
	healthcheckCmd.Flags().BoolVar(&healthcheckTest, "test", false, "Send a test prompt to every configured provider")
}
