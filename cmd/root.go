package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/app"
	"github.com/iksnae/sitechat/internal/provider"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	dbPath     string
	configPath string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// Opened by PersistentPreRunE for every command that touches state
var (
	cfg         *internal.Config
	db          *sql.DB
	application *app.App
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sitechat",
	Short: "Chat with an LLM to build web pages",
	Long: `Chat with Gemini, Groq, OpenAI or Anthropic models to build small web pages.

Replies are scanned for html, css and javascript code blocks. The latest code
is kept between runs and can be previewed in a browser or downloaded.

Quick Start:
  sitechat keys set gemini              # Store an API key
  sitechat send "A landing page for a bakery"
  sitechat preview --open               # View the result
  sitechat chat                         # Interactive chat`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: openApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeApp()
	},
}

// openApp loads .env and config, then opens the database and application state
func openApp(cmd *cobra.Command, args []string) error {
	internal.LoadDotEnv()

	paths, err := internal.DetectPaths()
	if err != nil {
		return fmt.Errorf("failed to detect paths: %w", err)
	}

	cfg, err = internal.LoadConfig(configPath, paths)
	if err != nil {
		return err
	}

	internal.SetLogLevel(internal.ParseLogLevel(cfg.LogLevel))
	if verbose {
		internal.SetVerbose(true)
	}

	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	internal.LogDebug("Using database %s", cfg.DatabasePath)

	db, err = internal.OpenDatabase(cfg.DatabasePath)
	if err != nil {
		return err
	}

	application = app.New(internal.NewStorage(db), provider.Options{
		Endpoints: cfg.Endpoints,
		Aliases:   cfg.Aliases,
	})
	return nil
}

func closeApp() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db, application = nil, nil
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	_ = closeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: per-user data directory)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: per-user config directory)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
