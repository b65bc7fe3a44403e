package transcript

import (
	"fmt"
	"strings"
)

// Divider is the paragraph renderers draw as a horizontal rule
const Divider = "---"

// Speaker identifies who contributed a turn
type Speaker int

const (
	User Speaker = iota
	Assistant
)

func (s Speaker) String() string {
	if s == User {
		return "user"
	}
	return "assistant"
}

func (s Speaker) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Speaker) UnmarshalText(b []byte) error {
	switch string(b) {
	case "user":
		*s = User
	case "assistant":
		*s = Assistant
	default:
		return fmt.Errorf("unknown speaker %q", string(b))
	}
	return nil
}

// Turn is one contiguous contribution by a single speaker, reduced to paragraphs
type Turn struct {
	Speaker    Speaker  `json:"speaker"`
	Label      string   `json:"label"`
	Paragraphs []string `json:"paragraphs"`
}

// BuildTurns converts blocks into turns. Scaffolding blocks are skipped unless verbose is set, in
// which case they are attributed to the assistant.
func BuildTurns(blocks []Block, assistantLabel, userLabel string, verbose bool) []Turn {
	var turns []Turn
	for _, block := range blocks {
		if block.Type.isNoise() && !verbose {
			continue
		}

		speaker, label := Assistant, assistantLabel
		if block.Type == UserTurn {
			speaker, label = User, userLabel
		}

		paragraphs := Reflow(block.Lines)
		if len(paragraphs) == 0 {
			continue
		}
		turns = append(turns, Turn{Speaker: speaker, Label: label, Paragraphs: paragraphs})
	}
	return turns
}

// Reflow joins terminal-wrapped lines into paragraphs split on blank lines. A line consisting
// of exactly "---" becomes its own paragraph.
func Reflow(lines []string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = current[:0]
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case "":
			flush()
		case Divider:
			flush()
			paragraphs = append(paragraphs, Divider)
		default:
			current = append(current, trimmed)
		}
	}
	flush()

	out := paragraphs[:0]
	for _, p := range paragraphs {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
