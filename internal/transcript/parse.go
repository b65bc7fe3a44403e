package transcript

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// HeadLines is how many leading lines the metadata detectors look at
const HeadLines = 30

// ErrInvalidUTF8 is returned when a transcript file is not valid UTF-8 text
var ErrInvalidUTF8 = errors.New("transcript is not valid UTF-8")

// Options controls how blocks become turns
type Options struct {
	AssistantLabel string
	UserLabel      string
	Verbose        bool // Keep tool calls and their output as assistant turns
}

// DefaultOptions returns the labels used when none are configured
func DefaultOptions() Options {
	return Options{
		AssistantLabel: "Assistant",
		UserLabel:      "User",
	}
}

// Transcript is a parsed transcript file
type Transcript struct {
	Path  string
	Turns []Turn
	Head  []string // The first HeadLines raw lines, for title and date detection
}

// ParseLines runs both passes over already-split lines
func ParseLines(lines []string, opts Options) []Turn {
	return BuildTurns(Assemble(lines), opts.AssistantLabel, opts.UserLabel, opts.Verbose)
}

// ParseText splits text into lines and parses it
func ParseText(text string, opts Options) []Turn {
	return ParseLines(SplitLines(text), opts)
}

// ParseFile reads the transcript at path once and parses it
func ParseFile(path string, opts Options) (*Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	if !utf8.Valid(b) {
		return nil, fmt.Errorf("failed to decode %s: %w", path, ErrInvalidUTF8)
	}

	lines := SplitLines(string(b))
	head := lines
	if len(head) > HeadLines {
		head = head[:HeadLines]
	}

	return &Transcript{
		Path:  path,
		Turns: ParseLines(lines, opts),
		Head:  head,
	}, nil
}

// SplitLines splits text at line boundaries: \n, \r\n, \r, \v, \f, the file, group and record
// separators (\x1c-\x1e), NEL (U+0085) and the Unicode line and paragraph separators. A
// trailing line break does not produce an empty final line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
