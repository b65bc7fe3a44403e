package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/cchalm/convo/internal/privacy"
	"github.com/cchalm/convo/internal/reference"
	"github.com/cchalm/convo/internal/render"
	"github.com/cchalm/convo/internal/telemetry"
	"github.com/cchalm/convo/internal/theme"
	"github.com/cchalm/convo/internal/title"
	"github.com/cchalm/convo/internal/transcript"
)

var ErrNoTurns = errors.New("no conversation turns found in the input file")

// converter runs one transcript through parsing, metadata detection, optional redaction,
// reference collection and rendering
type converter struct {
	config    Config
	logger    *zap.Logger
	telemetry *telemetry.Provider
	titles    title.Generator // nil disables generated titles
	refs      *reference.Collector
	renderers func(render.Format, *zap.Logger) (render.Renderer, error)
	stdout    io.Writer
	stderr    io.Writer
}

func (c *converter) notice(format string, args ...any) {
	fmt.Fprintf(c.stderr, "[notice] "+format+"\n", args...)
}

// Convert writes the formatted document and returns the path it was written to
func (c *converter) Convert(ctx context.Context, input, output string) (string, error) {
	format, err := render.ParseFormat(c.config.Output)
	if err != nil {
		return "", err
	}
	th, err := theme.Lookup(c.config.Theme)
	if err != nil {
		return "", err
	}

	if !format.Themed() {
		if c.config.Theme != "" {
			c.notice("--theme has no effect for --output=%s", format)
		}
		if c.config.Mobile {
			c.notice("--mobile has no effect for --output=%s", format)
		}
	}

	tr, err := c.parse(ctx, input)
	if err != nil {
		return "", err
	}
	if len(tr.Turns) == 0 {
		return "", ErrNoTurns
	}

	doc := render.Document{
		AssistantLabel: c.config.AssistantLabel,
		UserLabel:      c.config.UserLabel,
		Turns:          tr.Turns,
	}
	doc.Title, doc.Date = c.detectMetadata(ctx, tr)

	if c.config.Private {
		doc.Turns = c.redact(ctx, doc.Turns)
	}

	doc.References = c.collectReferences(ctx, doc.Turns)
	if len(doc.References) > 0 {
		c.notice("Resolved %d reference(s)", len(doc.References))
	}

	path := resolveOutputPath(input, output, format)
	if err := c.render(ctx, format, doc, render.Options{Theme: th, Mobile: c.config.Mobile}, path); err != nil {
		return "", err
	}

	fmt.Fprintf(c.stdout, "✓ Written to %s\n", path)
	return path, nil
}

func (c *converter) parse(ctx context.Context, input string) (*transcript.Transcript, error) {
	_, span := c.telemetry.Start(ctx, "parse", attribute.String("input", input))
	defer span.End()

	tr, err := transcript.ParseFile(input, transcript.Options{
		AssistantLabel: c.config.AssistantLabel,
		UserLabel:      c.config.UserLabel,
		Verbose:        c.config.Verbose,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("turns", len(tr.Turns)))
	c.logger.Debug("parsed transcript", zap.String("input", input), zap.Int("turns", len(tr.Turns)))
	return tr, nil
}

func (c *converter) detectMetadata(ctx context.Context, tr *transcript.Transcript) (string, string) {
	ctx, span := c.telemetry.Start(ctx, "detect_metadata")
	defer span.End()

	docTitle := c.config.Title
	if docTitle == "" {
		docTitle = transcript.DetectTitle(tr.Path, tr.Turns, tr.Head)
		if docTitle == transcript.StemTitle(tr.Path) && c.titles != nil {
			docTitle = c.generateTitle(ctx, tr.Turns, docTitle)
		}
	}

	date := c.config.Date
	if date == "" {
		date = transcript.DetectDate(tr.Path, tr.Head)
	}

	span.SetAttributes(attribute.String("title", docTitle), attribute.String("date", date))
	return docTitle, date
}

// generateTitle asks the configured model for a title, keeping fallback on any failure
func (c *converter) generateTitle(ctx context.Context, turns []transcript.Turn, fallback string) string {
	ctx, span := c.telemetry.Start(ctx, "title.generate", attribute.String("backend", c.config.TitleBackend))
	defer span.End()

	c.notice("Generating title with %s...", c.config.TitleBackend)
	generated, err := c.titles.Generate(ctx, turns)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn("title generation failed", zap.Error(err))
		return fallback
	}

	c.notice("Title: %s", generated)
	return generated
}

func (c *converter) redact(ctx context.Context, turns []transcript.Turn) []transcript.Turn {
	_, span := c.telemetry.Start(ctx, "privacy.redact")
	defer span.End()

	redacted, summary := privacy.Redact(turns)
	span.SetAttributes(attribute.Int("redacted", summary.Total()))
	fmt.Fprint(c.stderr, summary.Warning())
	return redacted
}

func (c *converter) collectReferences(ctx context.Context, turns []transcript.Turn) []reference.Reference {
	ctx, span := c.telemetry.Start(ctx, "references.collect", attribute.Int("cli_refs", len(c.config.Refs)))
	defer span.End()

	refs := c.refs.Collect(ctx, turns, c.config.Refs)
	span.SetAttributes(attribute.Int("references", len(refs)))
	return refs
}

func (c *converter) render(ctx context.Context, format render.Format, doc render.Document, opts render.Options, path string) error {
	ctx, span := c.telemetry.Start(ctx, "render",
		attribute.String("format", string(format)),
		attribute.Int("turns", len(doc.Turns)))
	defer span.End()

	r, err := c.renderers(format, c.logger)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	// Render fully before touching the output file so a failure leaves nothing behind
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, doc, opts); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to render %s: %w", format, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		telemetry.RecordError(span, err)
		return fmt.Errorf("failed to write output: %w", err)
	}

	c.logger.Debug("wrote document", zap.String("path", path), zap.Int("bytes", buf.Len()))
	return nil
}

// resolveOutputPath uses output when given, otherwise input with the format's extension. A
// derived path that would overwrite input gets a _formatted suffix instead.
func resolveOutputPath(input, output string, format render.Format) string {
	if output != "" {
		return output
	}
	ext := filepath.Ext(input)
	if ext == filepath.Base(input) {
		// A dotfile such as ".notes" has no extension
		ext = ""
	}
	stem := strings.TrimSuffix(input, ext)
	candidate := stem + format.Extension()
	if candidate == input {
		candidate = stem + "_formatted" + format.Extension()
	}
	return candidate
}
