package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/sevigo/pr-warden/internal/llm"
)

var formatRender bool

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Turn raw model output into the review comment pr-warden would post",
	Long: `Parses a raw model review (from a file, or stdin when no file is given) and
prints the markdown comment and disposition that would be posted.

Examples:
  warden-cli format review.txt
  cat review.txt | warden-cli format --render`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFormat,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	formatCmd.Flags().BoolVar(&formatRender, "render", false, "Render the markdown for the terminal")
	rootCmd.AddCommand(formatCmd)
}

func runFormat(cmd *cobra.Command, args []string) error {
	var (
		raw []byte
		err error
	)
	if len(args) == 1 {
		raw, err = os.ReadFile(args[0])
	} else {
		raw, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("failed to read review: %w", err)
	}

	review, err := llm.ParseReview(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse review: %w", err)
	}
	comment := llm.BuildComment(review)

	body := comment.Body()
	if formatRender {
		body, err = renderMarkdown(body)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), body)
	printDisposition(comment.Disposition)
	return nil
}

func renderMarkdown(body string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(body)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
