package transcript

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectTitle(t *testing.T) {
	tests := []struct {
		name string
		path string
		head []string
		want string
	}{
		{"heading", "x.txt", []string{"intro", "# Project Kickoff", "# Later"}, "Project Kickoff"},
		{"indented heading", "x.txt", []string{"   #   Spaced Out   "}, "Spaced Out"},
		{"subheading ignored", "notes_file.txt", []string{"## Not a title"}, "Notes File"},
		{"hash without space", "x-y.txt", []string{"#hashtag"}, "X Y"},
		{"stem fallback", "/tmp/sample_conversation.txt", nil, "Sample Conversation"},
		{"hyphens", "weekly-sync_notes.md", nil, "Weekly Sync Notes"},
		{"lowercases rest", "LOUD_name.txt", nil, "Loud Name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectTitle(tt.path, nil, tt.head))
		})
	}
}

func TestDetectDate(t *testing.T) {
	tests := []struct {
		name string
		head []string
		want string
	}{
		{"iso", []string{"Discussed on 2024-03-07 with the team"}, "2024-03-07"},
		{"iso before written", []string{"March 1, 2023", "2024-03-07"}, "2024-03-07"},
		{"written with comma", []string{"Held on January 15, 2026."}, "January 15, 2026"},
		{"written without comma", []string{"December 3 2025 sync"}, "December 3 2025"},
		{"abbreviated month ignored", []string{"Jan 15, 2026", "iso 2020-01-02"}, "2020-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDate("unused.txt", tt.head))
		})
	}
}

func TestDetectDate_ModTimeFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convo.txt")
	require.NoError(t, os.WriteFile(path, []byte("❯ Hello\n"), 0o644))
	mtime := time.Date(2025, time.June, 9, 12, 0, 0, 0, time.Local)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	assert.Equal(t, "2025-06-09", DetectDate(path, []string{"❯ Hello"}))
}

func TestDetectDate_MissingFileStillReturnsDate(t *testing.T) {
	date := DetectDate(filepath.Join(t.TempDir(), "gone.txt"), nil)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), date)
}

func TestDetectDate_FromParsedHead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "convo.txt")
	require.NoError(t, os.WriteFile(path, []byte("❯ Hello\n● This was on 2026-01-15 when things happened.\n"), 0o644))

	doc, err := ParseFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "2026-01-15", DetectDate(path, doc.Head))
}
