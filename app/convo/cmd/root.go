package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cchalm/convo/internal/config"
	"github.com/cchalm/convo/internal/render"
	"github.com/cchalm/convo/internal/theme"
)

// logger is replaced once flags and the config file have been read
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "convo INPUT_FILE [OUTPUT_FILE]",
	Short: "Convert a terminal AI conversation transcript to a formatted document",
	Long: `Convo turns a raw terminal transcript of a conversation with an AI coding assistant
into a clean document. Tool calls, progress lines and other scaffolding are dropped
unless --verbose is given, wrapped lines are reflowed into paragraphs, and the result is
written as PDF, HTML, Markdown or plain text.

OUTPUT_FILE defaults to INPUT_FILE with the extension of the chosen format.`,
	Args:              cobra.RangeArgs(1, 2),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRootConfig,
	PersistentPostRun: func(_ *cobra.Command, _ []string) { _ = logger.Sync() },
	RunE:              runConvert,
}

func Execute() error {
	return rootCmd.Execute()
}

func loadRootConfig(cmd *cobra.Command, _ []string) error {
	file, path, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return err
	}
	cfg.applyConfigFile(cmd, file)

	l, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger = l
	if path != "" {
		logger.Debug("loaded config file", zap.String("path", path))
	}

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}
	cfg.loadFromEnv()
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigPath, "config", "", "Config file (default $HOME/.config/convo/config.yaml or $HOME/.convoformat.yaml)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&cfg.AssistantLabel, "assistant", cfg.AssistantLabel, "Label for AI speaker turns")
	rootCmd.PersistentFlags().StringVar(&cfg.UserLabel, "user", cfg.UserLabel, "Label for human speaker turns")
	rootCmd.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", false, "Include tool calls and scaffolding in output")

	formats := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		formats[i] = string(f)
	}
	rootCmd.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: "+strings.Join(formats, ", "))
	rootCmd.Flags().StringVar(&cfg.Theme, "theme", "", "Visual theme: "+strings.Join(theme.Names, ", ")+" (pdf and html only) (default dark)")
	rootCmd.Flags().BoolVar(&cfg.Mobile, "mobile", false, "Optimize layout for mobile (~390pt wide)")
	rootCmd.Flags().BoolVar(&cfg.Private, "private", false, "Apply PII redaction. Always prints a warning")
	rootCmd.Flags().StringVar(&cfg.Title, "title", "", "Override auto-detected title")
	rootCmd.Flags().StringVar(&cfg.Date, "date", "", "Override auto-detected date")
	rootCmd.Flags().StringArrayVar(&cfg.Refs, "ref", nil, "Add a reference URL (repeatable). YouTube and GitHub URLs resolve metadata automatically")
	rootCmd.Flags().BoolVar(&cfg.NoCache, "no-cache", false, "Resolve every reference again instead of reusing cached metadata")
	rootCmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", "", "Directory for cached reference metadata (default user cache dir)")
	rootCmd.Flags().BoolVar(&cfg.NoAI, "no-ai", false, "Skip model features (title generation)")
	rootCmd.Flags().StringVar(&cfg.TitleBackend, "title-backend", cfg.TitleBackend, "Title generation backend: ollama or anthropic")
	rootCmd.Flags().StringVar(&cfg.TitleModel, "title-model", "", "Model used for title generation (default depends on backend)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := setupContext()

	input := args[0]
	var output string
	if len(args) > 1 {
		output = args[1]
	}

	tp, err := createTelemetryProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("failed to flush telemetry", zap.Error(err))
		}
	}()

	conv := &converter{
		config:    cfg,
		logger:    logger.With(zap.String("run_id", tp.RunID)),
		telemetry: tp,
		refs:      createReferenceCollector(ctx, cfg),
		renderers: render.New,
		stdout:    cmd.OutOrStdout(),
		stderr:    cmd.ErrOrStderr(),
	}
	if !cfg.NoAI {
		conv.titles, err = createTitleGenerator(cfg)
		if err != nil {
			return err
		}
	}

	_, err = conv.Convert(ctx, input, output)
	return err
}
