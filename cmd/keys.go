package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/provider"
	"github.com/spf13/cobra"
)

var (
	keysYes     bool
	keysShow    bool
	keysTestKey string
)

// keysCmd groups the credential commands
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage provider API keys",
	Long: `Manage the API keys for gemini, groq, openai and anthropic.

Keys are stored in the local database and sent only to their provider.`,
}

var keysSetCmd = &cobra.Command{
	Use:   "set <provider> [key]",
	Short: "Store an API key",
	Long: `Store an API key for a provider. Without a key argument the key is read
from a password prompt, or from the first line of stdin when not on a terminal.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := provider.ParseProvider(args[0])
		if err != nil {
			return err
		}

		var key string
		if len(args) == 2 {
			key = args[1]
		} else if key, err = readKey(cmd, p); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("no key given for %s", p.DisplayName())
		}

		if err := application.Credentials.Set(p.String(), key); err != nil {
			return fmt.Errorf("failed to save %s key: %w", p.DisplayName(), err)
		}
		internal.PrintSuccess(fmt.Sprintf("%s API key saved", p.DisplayName()))
		return nil
	},
}

func readKey(cmd *cobra.Command, p provider.Provider) (string, error) {
	if internal.IsTerminal() {
		var key string
		prompt := &survey.Password{Message: fmt.Sprintf("%s API key:", p.DisplayName())}
		if err := survey.AskOne(prompt, &key, survey.WithValidator(survey.Required)); err != nil {
			return "", err
		}
		return key, nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read key from stdin: %w", err)
	}
	return line, nil
}

var keysGetCmd = &cobra.Command{
	Use:   "get <provider>",
	Short: "Print a stored API key (masked unless --show)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := provider.ParseProvider(args[0])
		if err != nil {
			return err
		}
		key := application.Credentials.Get(p.String())
		if key == "" {
			return &internal.ConfigurationError{Provider: p.DisplayName()}
		}
		if !keysShow {
			key = maskKey(key)
		}
		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show which providers have a key",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("Provider")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Key")+"\t")
		for _, p := range provider.All {
			key := application.Credentials.Get(p.String())
			status, masked := warningStyle.Render("Not Configured"), dateStyle.Render("—")
			if key != "" {
				status, masked = successStyle.Render("Connected"), idStyle.Render(maskKey(key))
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.DisplayName(), status, masked)
		}
		return w.Flush()
	},
}

var keysClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored API keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := confirm("Delete all API keys?", keysYes)
		if err != nil {
			return err
		}
		if !ok {
			internal.PrintInfo("Cancelled")
			return nil
		}
		if err := application.Credentials.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear keys: %w", err)
		}
		internal.PrintSuccess("All API keys deleted")
		return nil
	},
}

var keysTestCmd = &cobra.Command{
	Use:   "test <provider>",
	Short: "Check that a provider accepts a key",
	Long: `Send a short test prompt to the provider's cheapest model. The stored key is
used unless --key is given; a key given with --key is not saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := provider.ParseProvider(args[0])
		if err != nil {
			return err
		}
		var reply string
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Testing %s connection", p.DisplayName()), func() error {
			var testErr error
			reply, testErr = application.Dispatcher.TestConnection(cmd.Context(), p, keysTestKey)
			return testErr
		})
		if err != nil {
			return sendError(err)
		}
		internal.PrintSuccess(fmt.Sprintf("%s connected: %s", p.DisplayName(), truncate(reply, 60)))
		return nil
	},
}

var keysImportEnvCmd = &cobra.Command{
	Use:   "import-env",
	Short: "Store keys from GEMINI_API_KEY, GROQ_API_KEY, OPENAI_API_KEY and ANTHROPIC_API_KEY",
	Long: `Store keys found in the environment (a .env file in the working directory
is loaded first). Providers without a variable are left unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		imported := 0
		for _, name := range internal.CredentialProviders {
			envVar := internal.CredentialEnvVar(name)
			value := strings.TrimSpace(os.Getenv(envVar))
			if value == "" {
				continue
			}
			if err := application.Credentials.Set(name, value); err != nil {
				return fmt.Errorf("failed to save %s: %w", envVar, err)
			}
			internal.LogInfo("Imported %s", envVar)
			imported++
		}
		if imported == 0 {
			internal.PrintWarning("No API key variables found")
			return nil
		}
		internal.PrintSuccess(fmt.Sprintf("Imported %d API key(s)", imported))
		return nil
	},
}

// maskKey keeps the first and last four characters of long keys
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}

func init() {
	rootCmd.AddCommand(keysCmd)
	keysCmd.AddCommand(keysSetCmd, keysGetCmd, keysListCmd, keysClearCmd, keysTestCmd, keysImportEnvCmd)
	keysGetCmd.Flags().BoolVar(&keysShow, "show", false, "Print the key unmasked")
	keysClearCmd.Flags().BoolVarP(&keysYes, "yes", "y", false, "Do not ask for confirmation")
	keysTestCmd.Flags().StringVar(&keysTestKey, "key", "", "Test this key instead of the stored one")
}
