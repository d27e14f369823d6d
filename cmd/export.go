package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputDir  string
	exportAll  bool
	exportCode bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the chat to a file",
	Long: `Export the active conversation to chat-export-{time}.{ext} in the output
directory. Formats: json (array of messages), jsonl, md, yaml, html.

With --all every saved chat is exported too, one file per chat.
With --code the current index.html, style.css and script.js are written as well.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		now := time.Now()
		sessions := []internal.ChatSession{{
			ID:        now.UnixMilli(),
			Messages:  application.Conversation.Messages(),
			Timestamp: now.UnixMilli(),
		}}
		if exportAll {
			sessions = append(sessions, application.Conversation.History()...)
		}

		var written []string
		err = internal.ShowProgress(cmd.Context(), fmt.Sprintf("Exporting %d chat(s) to %s", len(sessions), outputDir), func() error {
			for i := range sessions {
				session := &sessions[i]
				path := filepath.Join(outputDir, export.Filename(session.GetTimestamp(), exporter))
				if err := writeExport(exporter, session, path); err != nil {
					return err
				}
				written = append(written, path)
			}
			if exportCode && !application.Code().IsEmpty() {
				files, err := export.WriteCodeFiles(outputDir, application.Code())
				if err != nil {
					return err
				}
				written = append(written, files...)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		internal.PrintSuccess(fmt.Sprintf("Export complete: %d file(s) written to %s", len(written), outputDir))
		return nil
	},
}

func writeExport(exporter export.Exporter, session *internal.ChatSession, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(session, file); err != nil {
		_ = file.Close()
		return &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		internal.LogWarn("Failed to close file %s: %v", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "Export format (json, jsonl, md, yaml, html)")
	exportCmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Also export every saved chat")
	exportCmd.Flags().BoolVar(&exportCode, "code", false, "Also write the current code files")
}
