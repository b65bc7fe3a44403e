package transcript

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	userMarker      = "❯ "
	assistantMarker = "● "
	toolOutputGlyph = "⎿"
)

var (
	slashCommandRE = regexp.MustCompile(`^❯ /\w`)
	invocationRE   = regexp.MustCompile(`^● [A-Z][a-zA-Z]+\(`)
	readRE         = regexp.MustCompile(`^● Read\s`)
	searchedRE     = regexp.MustCompile(`^● Searched\b`)
	progressRE     = regexp.MustCompile(`^✻ .+ for \d+`)
)

// Classify assigns a LineType to a single raw line. It looks at nothing but the line itself.
func Classify(line string) LineType {
	switch {
	case strings.HasPrefix(line, userMarker):
		if isSlashCommand(line) {
			return ToolCall
		}
		return UserTurn
	case strings.HasPrefix(line, assistantMarker):
		if isToolInvocation(line) {
			return ToolCall
		}
		return AssistantTurn
	case isToolOutput(line):
		return ToolOutput
	case isProgress(line):
		return Progress
	default:
		return Continuation
	}
}

// isSlashCommand matches operator commands such as "❯ /rename" or "❯ /help"
func isSlashCommand(line string) bool {
	return slashCommandRE.MatchString(line)
}

// isToolInvocation matches assistant bullets that announce tool use rather than prose.
// The patterns stay narrow so that replies starting with a capitalized word are not caught.
func isToolInvocation(line string) bool {
	return invocationRE.MatchString(line) ||
		readRE.MatchString(line) ||
		searchedRE.MatchString(line) ||
		hasExpandHint(line)
}

// hasExpandHint matches the "(ctrl+o to expand)" UI hint. It fires anywhere in the line, so
// assistant prose that mentions ctrl+o is classified as a tool call too.
func hasExpandHint(line string) bool {
	return strings.Contains(strings.ToLower(line), "ctrl+o")
}

func isToolOutput(line string) bool {
	return strings.HasPrefix(strings.TrimLeftFunc(line, unicode.IsSpace), toolOutputGlyph)
}

// isProgress matches spinner summaries such as "✻ Baked for 43s"
func isProgress(line string) bool {
	return progressRE.MatchString(strings.TrimSpace(line))
}

// stripMarker removes the two-character prompt or bullet marker from a block opener
func stripMarker(line string) string {
	if rest, ok := strings.CutPrefix(line, userMarker); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(line, assistantMarker); ok {
		return rest
	}
	return line
}
