package cmd

import (
	"fmt"
	"net"
	"path/filepath"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/preview"
	"github.com/spf13/cobra"
)

var (
	previewOpen  bool
	previewWrite string
	previewAddr  string
	previewFull  bool
	openURL      = preview.Open
)

// previewCmd serves or writes the rendered page
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the current code in a browser",
	Long: `Serve the current code on a local address until interrupted.

  /                 sandboxed frame around the page
  /full             the page as a full window
  /files/{name}     index.html, style.css or script.js

With --write the page is written to a file instead of served.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sanitize := application.Settings().SanitizePreview

		if previewWrite != "" {
			doc := preview.Render(application.Code(), preview.Options{Title: preview.FullWindowTitle, Sanitize: sanitize})
			if err := preview.WriteFile(previewWrite, doc); err != nil {
				return fmt.Errorf("failed to write preview: %w", err)
			}
			internal.PrintSuccess(fmt.Sprintf("Wrote preview to %s", previewWrite))
			if previewOpen {
				abs, err := filepath.Abs(previewWrite)
				if err != nil {
					return err
				}
				return openURL("file://" + filepath.ToSlash(abs))
			}
			return nil
		}

		addr := previewAddr
		if addr == "" {
			addr = cfg.PreviewAddr
		}
		ln, err := preview.Listen(addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		url := previewURL(ln, previewFull)
		internal.PrintInfo(fmt.Sprintf("Serving preview at %s (Ctrl+C to stop)", url))
		if application.Code().IsEmpty() {
			internal.PrintWarning("No code yet; the page is empty until a reply carries code")
		}
		if previewOpen {
			if err := openURL(url); err != nil {
				internal.PrintWarning(fmt.Sprintf("Failed to open browser: %v", err))
			}
		}

		srv := preview.NewServer(application, sanitize)
		return srv.Serve(cmd.Context(), ln)
	},
}

func previewURL(ln net.Listener, full bool) string {
	url := "http://" + ln.Addr().String()
	if full {
		return url + "/full"
	}
	return url + "/"
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().BoolVar(&previewOpen, "open", false, "Open the preview in the default browser")
	previewCmd.Flags().StringVar(&previewWrite, "write", "", "Write the page to this file instead of serving it")
	previewCmd.Flags().StringVar(&previewAddr, "addr", "", "Listen address (default from config, "+internal.DefaultPreviewAddr+")")
	previewCmd.Flags().BoolVar(&previewFull, "full", false, "Open the full-window page instead of the frame")
}
