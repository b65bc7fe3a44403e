// Package privacy redacts secrets and personal details from conversation turns.
//
// Redaction runs in two layers. The secret layer replaces credentials and government or card
// numbers. The entity layer replaces contact details and keeps per-entity counts. Neither layer
// can promise completeness, so callers always show Summary.Warning to the user.
package privacy

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cchalm/convo/internal/transcript"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
	entity      string // Only set for entity-layer rules

	// lowConfidence flags matches that are redacted but may not be personal data
	lowConfidence func(match string) bool
}

var secretRules = []rule{
	{pattern: regexp.MustCompile(`sk-[a-zA-Z0-9]{20,}`), replacement: "[REDACTED_KEY]"},
	{pattern: regexp.MustCompile(`Bearer [a-zA-Z0-9\-._~+/]+=*`), replacement: "[REDACTED_KEY]"},
	{pattern: regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`), replacement: "[REDACTED_PASSWORD]"},
	{pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), replacement: "[REDACTED_SSN]"},
	{pattern: regexp.MustCompile(`\b\d{4}[\s\-]\d{4}[\s\-]\d{4}[\s\-]\d{4}\b`), replacement: "[REDACTED_CARD]"},
}

var entityRules = []rule{
	{
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
		replacement: "[EMAIL]",
		entity:      "EMAIL_ADDRESS",
	},
	{
		pattern:     regexp.MustCompile(`(?:\+?1[\s.\-]?)?\(?\b\d{3}\)?[\s.\-]\d{3}[\s.\-]\d{4}\b`),
		replacement: "[PHONE]",
		entity:      "PHONE_NUMBER",
		// Dotted digit groups are as often version numbers or addresses as phone numbers
		lowConfidence: func(match string) bool {
			return strings.Contains(match, ".")
		},
	},
}

// Summary counts what was redacted
type Summary struct {
	EntityCounts  map[string]int
	RegexCount    int
	LowConfidence int // Redacted entity matches worth a manual look
}

// Total is the number of redactions across both layers
func (s Summary) Total() int {
	total := s.RegexCount
	for _, n := range s.EntityCounts {
		total += n
	}
	return total
}

func apply(rules []rule, text string, onMatch func(r rule, matches []string)) string {
	for _, r := range rules {
		matches := r.pattern.FindAllString(text, -1)
		if len(matches) == 0 {
			continue
		}
		text = r.pattern.ReplaceAllLiteralString(text, r.replacement)
		onMatch(r, matches)
	}
	return text
}

// RedactSecrets applies the secret layer to text and returns the result with the match count
func RedactSecrets(text string) (string, int) {
	count := 0
	text = apply(secretRules, text, func(_ rule, matches []string) { count += len(matches) })
	return text, count
}

// Redact returns copies of turns with both layers applied. The input is not modified.
func Redact(turns []transcript.Turn) ([]transcript.Turn, Summary) {
	summary := Summary{EntityCounts: map[string]int{}}
	redacted := make([]transcript.Turn, 0, len(turns))

	for _, turn := range turns {
		paragraphs := make([]string, 0, len(turn.Paragraphs))
		for _, para := range turn.Paragraphs {
			para, n := RedactSecrets(para)
			summary.RegexCount += n
			para = apply(entityRules, para, func(r rule, matches []string) {
				summary.EntityCounts[r.entity] += len(matches)
				if r.lowConfidence == nil {
					return
				}
				for _, m := range matches {
					if r.lowConfidence(m) {
						summary.LowConfidence++
					}
				}
			})
			paragraphs = append(paragraphs, para)
		}
		redacted = append(redacted, transcript.Turn{
			Speaker:    turn.Speaker,
			Label:      turn.Label,
			Paragraphs: paragraphs,
		})
	}

	return redacted, summary
}

// Warning is the notice printed whenever private mode is active
func (s Summary) Warning() string {
	entities := make([]string, 0, len(s.EntityCounts))
	for entity := range s.EntityCounts {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	var parts []string
	for _, entity := range entities {
		parts = append(parts, fmt.Sprintf("%s ×%d", entity, s.EntityCounts[entity]))
	}
	if s.RegexCount > 0 {
		parts = append(parts, fmt.Sprintf("REGEX ×%d", s.RegexCount))
	}
	breakdown := "none detected"
	if len(parts) > 0 {
		breakdown = strings.Join(parts, ", ")
	}

	lowConfidence := fmt.Sprintf("%d", s.LowConfidence)
	if s.LowConfidence > 0 {
		lowConfidence += ", manual review recommended"
	}

	return fmt.Sprintf("\n⚠  Privacy mode active (--private)\n"+
		"   Redacted entities: %d (%s)\n"+
		"   Low-confidence items: %s\n"+
		"   This tool makes a good-faith effort but cannot guarantee completeness.\n"+
		"   Always review output before sharing.\n", s.Total(), breakdown, lowConfidence)
}
