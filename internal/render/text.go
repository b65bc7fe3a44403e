package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cchalm/convo/internal/transcript"
)

// TextRenderer writes plain text with upper-cased speaker tags
type TextRenderer struct{}

func (TextRenderer) Render(_ context.Context, w io.Writer, doc Document, _ Options) error {
	lines := []string{
		fmt.Sprintf("=== %s ===", doc.Title),
		doc.Date,
		"",
	}

	for _, turn := range doc.Turns {
		lines = append(lines, fmt.Sprintf("[%s]", strings.ToUpper(turn.Label)))
		for _, para := range turn.Paragraphs {
			if para == transcript.Divider {
				lines = append(lines, "")
				continue
			}
			lines = append(lines, para, "")
		}
		lines = append(lines, "---", "")
	}

	if len(doc.References) > 0 {
		lines = append(lines, "=== References ===", "")
		for _, ref := range doc.References {
			parts := []string{ref.Title}
			if ref.Channel != "" {
				parts = append(parts, "Channel: "+ref.Channel)
			}
			if ref.Duration != "" {
				parts = append(parts, "Duration: "+ref.Duration)
			}
			parts = append(parts, ref.URL)
			lines = append(lines, strings.Join(parts, "  "), "")
		}
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	if err != nil {
		return fmt.Errorf("failed to write text document: %w", err)
	}
	return nil
}
