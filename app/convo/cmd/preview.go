package cmd

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/cchalm/convo/internal/reference"
	"github.com/cchalm/convo/internal/render"
	"github.com/cchalm/convo/internal/telemetry"
)

var previewOptions = struct {
	Style string
	Width int
}{}

var previewCmd = &cobra.Command{
	Use:   "preview INPUT_FILE",
	Short: "Show a formatted transcript in the terminal",
	Long: `Parses a transcript and prints its Markdown rendering styled for the terminal.
Nothing is written to disk and no model or network lookups are made.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewOptions.Style, "style", "auto", "Terminal style: auto, dark, light, notty")
	previewCmd.Flags().IntVar(&previewOptions.Width, "width", 80, "Word wrap width")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{}, logger)
	if err != nil {
		return err
	}
	conv := &converter{
		config:    cfg,
		logger:    logger,
		telemetry: tp,
		refs:      reference.NewCollector(logger),
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
	}

	tr, err := conv.parse(ctx, args[0])
	if err != nil {
		return err
	}
	if len(tr.Turns) == 0 {
		return ErrNoTurns
	}

	doc := render.Document{
		AssistantLabel: cfg.AssistantLabel,
		UserLabel:      cfg.UserLabel,
		Turns:          tr.Turns,
	}
	doc.Title, doc.Date = conv.detectMetadata(ctx, tr)

	var md bytes.Buffer
	if err := (render.MarkdownRenderer{}).Render(ctx, &md, doc, render.Options{}); err != nil {
		return err
	}

	out, err := renderTerminal(md.String(), previewOptions.Style, previewOptions.Width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}

func renderTerminal(markdown, style string, width int) (string, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStylePath(style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create terminal renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
