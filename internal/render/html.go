package render

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/util"

	"github.com/cchalm/convo/internal/theme"
	"github.com/cchalm/convo/internal/transcript"
)

//go:embed templates/document.html.tmpl
var htmlTemplateText string

var htmlTemplate = template.Must(template.New("document").Parse(htmlTemplateText))

const (
	mobileWidthPt  = 390
	mobileHeightPt = 700
)

// HTMLRenderer writes a self-contained, themed HTML page. Paragraph text gets inline Markdown
// only (code spans, emphasis, links, strikethrough). Anything that looks like HTML is escaped
// and printed as written, and block syntax such as "# " or "- " stays literal text.
type HTMLRenderer struct {
	markdown goldmark.Markdown
}

func NewHTMLRenderer() *HTMLRenderer {
	// Every reflowed paragraph is a single block, so the paragraph parser is the only block
	// parser. The raw HTML inline parser is left out so tags fall through to escaped text.
	p := parser.NewParser(
		parser.WithBlockParsers(
			util.Prioritized(parser.NewParagraphParser(), 1000),
		),
		parser.WithInlineParsers(
			util.Prioritized(parser.NewCodeSpanParser(), 100),
			util.Prioritized(parser.NewLinkParser(), 200),
			util.Prioritized(parser.NewAutoLinkParser(), 300),
			util.Prioritized(parser.NewEmphasisParser(), 500),
		),
	)
	return &HTMLRenderer{
		markdown: goldmark.New(
			goldmark.WithParser(p),
			goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
		),
	}
}

type htmlParagraph struct {
	Divider bool
	HTML    template.HTML
}

type htmlTurn struct {
	Class      string
	Marker     string
	Label      string
	Paragraphs []htmlParagraph
}

type htmlReference struct {
	URL   string
	Title string
	Meta  string
}

type htmlData struct {
	Title          string
	Date           string
	AssistantLabel string
	UserLabel      string
	Style          template.CSS
	Turns          []htmlTurn
	References     []htmlReference
}

func (r *HTMLRenderer) Render(_ context.Context, w io.Writer, doc Document, opts Options) error {
	data := htmlData{
		Title:          doc.Title,
		Date:           doc.Date,
		AssistantLabel: doc.AssistantLabel,
		UserLabel:      doc.UserLabel,
		Style:          stylesheet(opts.Theme, opts.Mobile),
	}

	for _, turn := range doc.Turns {
		ht := htmlTurn{Class: "assistant", Marker: "●", Label: turn.Label}
		if turn.Speaker == transcript.User {
			ht.Class, ht.Marker = "user", "»"
		}
		for _, para := range turn.Paragraphs {
			if para == transcript.Divider {
				ht.Paragraphs = append(ht.Paragraphs, htmlParagraph{Divider: true})
				continue
			}
			converted, err := r.paragraph(para)
			if err != nil {
				return err
			}
			ht.Paragraphs = append(ht.Paragraphs, htmlParagraph{HTML: converted})
		}
		data.Turns = append(data.Turns, ht)
	}

	for _, ref := range doc.References {
		data.References = append(data.References, htmlReference{
			URL:   ref.URL,
			Title: ref.Title,
			Meta:  strings.Join(referenceMeta(ref), " · "),
		})
	}

	if err := htmlTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute html template: %w", err)
	}
	return nil
}

func (r *HTMLRenderer) paragraph(text string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to convert paragraph: %w", err)
	}
	// Without the raw HTML parser every tag is text, which goldmark escapes
	return template.HTML(buf.String()), nil
}

func stylesheet(t theme.Theme, mobile bool) template.CSS {
	page := "A4"
	margin := "20mm"
	width := "760px"
	if mobile {
		page = fmt.Sprintf("%dpt %dpt", mobileWidthPt, mobileHeightPt)
		margin = "12mm"
		width = fmt.Sprintf("%dpx", mobileWidthPt)
	}
	titleSize := 22
	if mobile {
		titleSize = 18
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@page { size: %s; margin: %s; }\n", page, margin)
	fmt.Fprintf(&b, "html, body { background: %s; margin: 0; }\n", t.PageBackground)
	fmt.Fprintf(&b, "body { font-family: %s, Arial, sans-serif; font-size: %dpt; line-height: %.2f; }\n",
		t.FontBody, t.BodySize(mobile), t.LineHeight)
	fmt.Fprintf(&b, "main { max-width: %s; margin: 0 auto; padding: 24px 16px; }\n", width)
	fmt.Fprintf(&b, ".title { color: %s; font-size: %dpt; margin: 0 0 4px; }\n", t.Title, titleSize)
	fmt.Fprintf(&b, ".subtitle { color: %s; font-size: 9pt; margin: 0 0 2px; }\n", t.Subtitle)
	fmt.Fprintf(&b, ".meta, .ref-meta { color: %s; font-size: 8pt; }\n", t.Subtitle)
	fmt.Fprintf(&b, ".rule { border: 0; border-top: 1px solid %s; margin: 12px 0; }\n", t.Rule)
	fmt.Fprintf(&b, ".turn-rule, .divider { border: 0; border-top: 0.5px solid %s44; margin: 6px 0; }\n", t.Rule)
	b.WriteString(".divider { width: 80%; }\n")
	b.WriteString(".label { font-weight: bold; font-size: 8pt; margin: 14px 0 2px; }\n")
	fmt.Fprintf(&b, ".assistant .label { color: %s; }\n.assistant { color: %s; }\n", t.AssistantLabel, t.AssistantText)
	fmt.Fprintf(&b, ".user .label { color: %s; }\n.user { color: %s; }\n", t.UserLabel, t.UserText)
	fmt.Fprintf(&b, "code, pre { font-family: %s, monospace; color: %s; }\n", t.FontCode, t.SystemText)
	fmt.Fprintf(&b, ".references, .references a { color: %s; }\n", t.AssistantText)
	return template.CSS(b.String())
}
