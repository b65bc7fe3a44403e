package render

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/cchalm/convo/internal/reference"
	"github.com/cchalm/convo/internal/transcript"
)

//go:embed templates/markdown.tmpl
var markdownTemplateText string

var markdownTemplate = template.Must(template.New("markdown").Funcs(template.FuncMap{
	"marker": speakerMarker,
	"meta": func(ref reference.Reference) string {
		return strings.Join(referenceMeta(ref), " · ")
	},
	"escapeBrackets": strings.NewReplacer("[", `\[`, "]", `\]`).Replace,
}).Parse(markdownTemplateText))

// MarkdownRenderer writes Obsidian-friendly Markdown
type MarkdownRenderer struct{}

type markdownData struct {
	Document
	AssistantName string
	UserName      string
}

func (MarkdownRenderer) Render(_ context.Context, w io.Writer, doc Document, _ Options) error {
	data := markdownData{
		Document:      doc,
		AssistantName: speakerName(doc.Turns, transcript.Assistant, "Assistant"),
		UserName:      speakerName(doc.Turns, transcript.User, "User"),
	}
	if err := markdownTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute markdown template: %w", err)
	}
	return nil
}

func speakerMarker(s transcript.Speaker) string {
	if s == transcript.Assistant {
		return "●"
	}
	return "❯"
}

// speakerName is the label of the first turn by the speaker
func speakerName(turns []transcript.Turn, speaker transcript.Speaker, fallback string) string {
	for _, turn := range turns {
		if turn.Speaker == speaker {
			return turn.Label
		}
	}
	return fallback
}
