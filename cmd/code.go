package cmd

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/iksnae/sitechat/internal"
	"github.com/iksnae/sitechat/internal/codeblock"
	"github.com/iksnae/sitechat/internal/export"
	"github.com/spf13/cobra"
)

var (
	codeBlocks  bool
	codeBlock   int
	codeDir     string
	clipboardFn = clipboard.WriteAll
)

// codeCmd groups the code buffer commands
var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Show, copy or download the current html, css and javascript",
}

var codeShowCmd = &cobra.Command{
	Use:   "show [html|css|javascript]",
	Short: "Print the current code",
	Long: `Print the current code buffers, or one of them. With --blocks every fenced
block of the last reply is printed instead, including other languages.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if codeBlocks {
			blocks := codeblock.Blocks(lastReply())
			if len(blocks) == 0 {
				internal.PrintInfo("The last reply has no code blocks")
				return nil
			}
			for i, b := range blocks {
				fmt.Fprintln(out, sectionStyle.Render(fmt.Sprintf("[%d] %s", i+1, b.Label)))
				fmt.Fprintln(out, highlight(b.Content, b.Label))
				fmt.Fprintln(out)
			}
			return nil
		}

		langs, err := selectLanguages(args)
		if err != nil {
			return err
		}
		code := application.Code()
		if code.IsEmpty() {
			internal.PrintInfo("No code yet. Ask for a page with: sitechat send \"...\"")
			return nil
		}
		for _, lang := range langs {
			content := code.Get(lang)
			if content == "" {
				continue
			}
			fmt.Fprintln(out, sectionStyle.Render(lang.Filename()))
			fmt.Fprintln(out, highlight(content, lang.Tag()))
			fmt.Fprintln(out)
		}
		return nil
	},
}

var codeCopyCmd = &cobra.Command{
	Use:   "copy [html|css|javascript]",
	Short: "Copy code to the clipboard",
	Long: `Copy a code buffer (html by default) to the clipboard. With --block N the
Nth fenced block of the last reply is copied instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var content, what string
		if codeBlock > 0 {
			blocks := codeblock.Blocks(lastReply())
			if codeBlock > len(blocks) {
				return fmt.Errorf("the last reply has %d code block(s)", len(blocks))
			}
			content, what = blocks[codeBlock-1].Content, fmt.Sprintf("block %d", codeBlock)
		} else {
			lang := codeblock.HTML
			if len(args) == 1 {
				l, ok := codeblock.LanguageForTag(args[0])
				if !ok {
					return fmt.Errorf("unknown language %q (expected html, css or javascript)", args[0])
				}
				lang = l
			}
			content, what = application.Code().Get(lang), lang.Filename()
		}

		if content == "" {
			return fmt.Errorf("%s is empty", what)
		}
		if err := clipboardFn(content); err != nil {
			internal.LogWarn("Clipboard write failed: %v", err)
			return fmt.Errorf("failed to copy %s to clipboard: %w", what, err)
		}
		internal.PrintSuccess(fmt.Sprintf("Copied %s to clipboard", what))
		return nil
	},
}

var codeDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Write index.html, style.css and script.js",
	RunE: func(cmd *cobra.Command, args []string) error {
		code := application.Code()
		if code.IsEmpty() {
			return fmt.Errorf("no code to download yet")
		}
		written, err := export.WriteCodeFiles(codeDir, code)
		if err != nil {
			return err
		}
		internal.PrintSuccess(fmt.Sprintf("Wrote %s to %s", strings.Join(written, ", "), codeDir))
		return nil
	},
}

func selectLanguages(args []string) ([]codeblock.Language, error) {
	if len(args) == 0 {
		return codeblock.Languages, nil
	}
	lang, ok := codeblock.LanguageForTag(args[0])
	if !ok {
		return nil, fmt.Errorf("unknown language %q (expected html, css or javascript)", args[0])
	}
	return []codeblock.Language{lang}, nil
}

// lastReply returns the newest assistant message of the active conversation
func lastReply() string {
	messages := application.Conversation.Messages()
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == internal.RoleAssistant {
			return messages[i].Content
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(codeCmd)
	codeCmd.AddCommand(codeShowCmd, codeCopyCmd, codeDownloadCmd)
	codeShowCmd.Flags().BoolVar(&codeBlocks, "blocks", false, "Show every fenced block of the last reply")
	codeCopyCmd.Flags().IntVar(&codeBlock, "block", 0, "Copy the Nth block of the last reply")
	codeDownloadCmd.Flags().StringVarP(&codeDir, "dir", "d", ".", "Output directory")
}
