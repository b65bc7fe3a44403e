// Package render writes parsed conversations out as text, Markdown, HTML or PDF documents.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cchalm/convo/internal/reference"
	"github.com/cchalm/convo/internal/theme"
	"github.com/cchalm/convo/internal/transcript"
)

// Format is an output document format
type Format string

const (
	PDF      Format = "pdf"
	HTML     Format = "html"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists the supported formats in the order they are shown in help output
var Formats = []Format{PDF, HTML, Markdown, Text}

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w '%s', expected one of %v", ErrUnknownFormat, s, Formats)
}

// Extension is the file extension used for output paths
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case HTML:
		return ".html"
	case Markdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Themed reports whether the format uses themes and the mobile layout
func (f Format) Themed() bool {
	return f == PDF || f == HTML
}

// Document is everything a renderer needs to lay out a conversation
type Document struct {
	Title          string
	Date           string
	AssistantLabel string
	UserLabel      string
	Turns          []transcript.Turn
	References     []reference.Reference
}

// Options are the presentation settings for themed formats
type Options struct {
	Theme  theme.Theme
	Mobile bool
}

// Renderer writes a document in one format
type Renderer interface {
	Render(ctx context.Context, w io.Writer, doc Document, opts Options) error
}

// New returns the renderer for a format
func New(f Format, logger *zap.Logger) (Renderer, error) {
	switch f {
	case Text:
		return TextRenderer{}, nil
	case Markdown:
		return MarkdownRenderer{}, nil
	case HTML:
		return NewHTMLRenderer(), nil
	case PDF:
		return NewPDFRenderer(NewHTMLRenderer(), ChromePrinter{}, logger), nil
	default:
		return nil, fmt.Errorf("%w '%s'", ErrUnknownFormat, f)
	}
}

// referenceMeta joins the optional channel and duration of a reference
func referenceMeta(ref reference.Reference) []string {
	var meta []string
	if ref.Channel != "" {
		meta = append(meta, ref.Channel)
	}
	if ref.Duration != "" {
		meta = append(meta, ref.Duration)
	}
	return meta
}
