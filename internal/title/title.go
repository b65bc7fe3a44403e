// Package title generates a short document title from the opening of a conversation.
package title

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cchalm/convo/internal/transcript"
)

const maxExcerptChars = 3000

const promptTemplate = `You are a title generator. Given the opening of a conversation, produce a short,
descriptive title (3-8 words). The title should capture the main topic or theme,
not be generic. Do not use quotes. Do not explain. Just output the title.

Conversation:
%s

Title:`

// Generator produces a title for a conversation
type Generator interface {
	Generate(ctx context.Context, turns []transcript.Turn) (string, error)
}

// Excerpt renders turns as "Label: paragraph" lines, skipping dividers, and stops before the
// line that would exceed maxChars characters
func Excerpt(turns []transcript.Turn, maxChars int) string {
	var lines []string
	total := 0
	for _, turn := range turns {
		for _, para := range turn.Paragraphs {
			if para == transcript.Divider {
				continue
			}
			line := turn.Label + ": " + para
			n := utf8.RuneCountInString(line)
			if total+n > maxChars {
				return strings.Join(lines, "\n")
			}
			lines = append(lines, line)
			total += n
		}
	}
	return strings.Join(lines, "\n")
}

// Prompt builds the title request for the given turns, or returns "" when there is nothing to
// summarize
func Prompt(turns []transcript.Turn) string {
	excerpt := Excerpt(turns, maxExcerptChars)
	if strings.TrimSpace(excerpt) == "" {
		return ""
	}
	return fmt.Sprintf(promptTemplate, excerpt)
}

// Clean trims model chatter from a raw completion: surrounding quotes, trailing periods and
// anything after the first line
func Clean(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.Trim(s, ".")
	s = strings.TrimSpace(s)
	if first, _, found := strings.Cut(s, "\n"); found {
		s = strings.TrimSpace(first)
	}
	return s
}
