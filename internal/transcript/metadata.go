package transcript

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	headingRE     = regexp.MustCompile(`^#\s+(.+)`)
	isoDateRE     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	writtenDateRE = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
)

// DetectTitle returns the first markdown-style heading in head, or the file name stem title-cased
// with underscores and hyphens turned into spaces. turns is not consulted yet.
func DetectTitle(path string, turns []Turn, head []string) string {
	for _, line := range head {
		if m := headingRE.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return StemTitle(path)
}

// StemTitle is the fallback title derived from the file name
func StemTitle(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	return cases.Title(language.English).String(stem)
}

// DetectDate returns the first ISO date in head, then the first written date such as
// "March 7, 2024", and otherwise the file's modification date
func DetectDate(path string, head []string) string {
	for _, line := range head {
		if m := isoDateRE.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	for _, line := range head {
		if m := writtenDateRE.FindString(line); m != "" {
			return m
		}
	}
	return modifiedDate(path)
}

func modifiedDate(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return time.Now().Format(time.DateOnly)
	}
	return info.ModTime().Format(time.DateOnly)
}
