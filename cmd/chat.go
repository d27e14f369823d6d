package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/preview"
	"github.com/iksnae/sitechat/internal/tui"
	"github.com/spf13/cobra"
)

// chatCmd starts the interactive chat screen
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat",
	Long: `Start an interactive chat continuing the active conversation.

Keys: enter sends, tab cycles the model, ctrl+n saves the chat to history and
starts a new one, ctrl+o opens the preview, esc quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// stderr belongs to the screen while the chat runs
		logFile, err := os.OpenFile(chatLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			internal.SetLogOutput(io.Discard)
		} else {
			defer logFile.Close()
			internal.SetLogOutput(logFile)
		}
		defer internal.SetLogOutput(os.Stderr)

		return tui.Run(ctx, application, tui.Options{
			OpenPreview: startPreview(ctx),
		})
	},
}

// startPreview serves the preview in the background for the life of ctx.
// When the address is taken the page is written to a temp file instead.
func startPreview(ctx context.Context) func() error {
	sanitize := application.Settings().SanitizePreview

	ln, err := preview.Listen(cfg.PreviewAddr)
	if err != nil {
		internal.LogDebug("Preview server unavailable on %s: %v", cfg.PreviewAddr, err)
		return func() error {
			doc := preview.Render(application.Code(), preview.Options{Title: preview.FullWindowTitle, Sanitize: sanitize})
			path := filepath.Join(os.TempDir(), "sitechat-preview.html")
			if err := preview.WriteFile(path, doc); err != nil {
				return err
			}
			return openURL("file://" + filepath.ToSlash(path))
		}
	}

	srv := preview.NewServer(application, sanitize)
	go func() {
		if err := srv.Serve(ctx, ln); err != nil {
			internal.LogWarn("Preview server stopped: %v", err)
		}
	}()

	url := previewURL(ln, false)
	return func() error {
		return openURL(url)
	}
}

func chatLogPath() string {
	if cfg.DatabasePath == ":memory:" {
		return filepath.Join(os.TempDir(), "sitechat-chat.log")
	}
	return filepath.Join(filepath.Dir(cfg.DatabasePath), "chat.log")
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
