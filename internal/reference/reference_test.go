package reference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v72/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cchalm/convo/internal/transcript"
)

func assistantSays(paragraphs ...string) []transcript.Turn {
	return []transcript.Turn{{Speaker: transcript.Assistant, Label: "Assistant", Paragraphs: paragraphs}}
}

func fakeYtdlp(calls *[]string, out string, err error) CommandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, args[len(args)-1])
		return []byte(out), err
	}
}

func TestYouTubeResolver_Identify(t *testing.T) {
	y := NewYouTubeResolver(nil)

	canonical, key, ok := y.Identify("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", canonical)
	assert.Equal(t, "youtube:dQw4w9WgXcQ", key)

	_, key, ok = y.Identify("https://youtu.be/dQw4w9WgXcQ")
	require.True(t, ok)
	assert.Equal(t, "youtube:dQw4w9WgXcQ", key)

	_, _, ok = y.Identify("https://example.com/watch?v=dQw4w9WgXcQ")
	assert.False(t, ok)
}

func TestYouTubeResolver_Resolve(t *testing.T) {
	var calls []string
	y := NewYouTubeResolver(fakeYtdlp(&calls, `{"title":"Talk","uploader":"Conf","duration":3725.0}`, nil))

	ref, err := y.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, Reference{URL: "https://youtu.be/dQw4w9WgXcQ", Title: "Talk", Channel: "Conf", Duration: "1:02:05"}, ref)
	assert.Equal(t, []string{"https://youtu.be/dQw4w9WgXcQ"}, calls)
}

func TestYouTubeResolver_ResolveBadOutput(t *testing.T) {
	var calls []string
	y := NewYouTubeResolver(fakeYtdlp(&calls, "not json", nil))

	_, err := y.Resolve(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:07", FormatDuration(7))
	assert.Equal(t, "4:05", FormatDuration(245))
	assert.Equal(t, "1:00:00", FormatDuration(3600))
}

func TestCollector_CLIFirstThenConversation(t *testing.T) {
	var calls []string
	y := NewYouTubeResolver(fakeYtdlp(&calls, `{"title":"Video","channel":"Chan"}`, nil))
	c := NewCollector(zap.NewNop(), y)

	turns := assistantSays(
		"Watch https://youtu.be/AAAAAAAAAAA and https://www.youtube.com/watch?v=BBBBBBBBBBB.",
		"Again: https://youtube.com/watch?v=AAAAAAAAAAA",
	)
	refs := c.Collect(context.Background(), turns, []string{"https://youtu.be/BBBBBBBBBBB", "https://example.com/notes"})

	require.Len(t, refs, 3)
	assert.Equal(t, "https://youtu.be/BBBBBBBBBBB", refs[0].URL)
	assert.Equal(t, SourceCLI, refs[0].Source)
	assert.Equal(t, Reference{URL: "https://example.com/notes", Title: "https://example.com/notes", Source: SourceCLI}, refs[1])
	assert.Equal(t, "https://youtu.be/AAAAAAAAAAA", refs[2].URL)
	assert.Equal(t, SourceConversation, refs[2].Source)
	assert.Equal(t, "Video", refs[2].Title)
	assert.Len(t, calls, 2)
}

func TestCollector_ResolveFailureFallsBackToURL(t *testing.T) {
	var calls []string
	y := NewYouTubeResolver(fakeYtdlp(&calls, "", errors.New("yt-dlp not found")))
	c := NewCollector(zap.NewNop(), y)

	refs := c.Collect(context.Background(), assistantSays("see https://youtu.be/AAAAAAAAAAA"), nil)

	require.Len(t, refs, 1)
	assert.Equal(t, "https://youtu.be/AAAAAAAAAAA", refs[0].Title)
}

func TestCollector_NoResolvers(t *testing.T) {
	c := NewCollector(zap.NewNop())
	assert.Empty(t, c.Collect(context.Background(), assistantSays("https://youtu.be/AAAAAAAAAAA"), nil))
}

func TestExtractURLs(t *testing.T) {
	urls := ExtractURLs(assistantSays("Links: (https://a.example/x), https://b.example/y.", "none here"))
	assert.Equal(t, []string{"https://a.example/x", "https://b.example/y"}, urls)
}

func newTestGitHubClient(t *testing.T, mux *http.ServeMux) *github.Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = baseURL
	return client
}

func TestGitHubResolver_Identify(t *testing.T) {
	g := NewGitHubResolver(nil)

	canonical, key, ok := g.Identify("https://github.com/Owner/Repo.git")
	require.True(t, ok)
	assert.Equal(t, "https://github.com/Owner/Repo", canonical)
	assert.Equal(t, "github:owner/repo", key)

	canonical, key, ok = g.Identify("https://github.com/owner/repo/pull/12/files")
	require.True(t, ok)
	assert.Equal(t, "https://github.com/owner/repo/pull/12", canonical)
	assert.Equal(t, "github:owner/repo#12", key)

	_, _, ok = g.Identify("https://gitlab.com/owner/repo")
	assert.False(t, ok)
}

func TestGitHubResolver_ResolveRepository(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name":"owner/repo","description":"A tidy repo","owner":{"login":"owner"}}`)
	})
	g := NewGitHubResolver(newTestGitHubClient(t, mux))

	ref, err := g.Resolve(context.Background(), "https://github.com/owner/repo")
	require.NoError(t, err)
	assert.Equal(t, "owner/repo: A tidy repo", ref.Title)
	assert.Equal(t, "owner", ref.Channel)
}

func TestGitHubResolver_ResolveIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/issues/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number":7,"title":"Crash on empty input","user":{"login":"reporter"}}`)
	})
	g := NewGitHubResolver(newTestGitHubClient(t, mux))

	ref, err := g.Resolve(context.Background(), "https://github.com/owner/repo/issues/7")
	require.NoError(t, err)
	assert.Equal(t, "owner/repo#7: Crash on empty input", ref.Title)
	assert.Equal(t, "reporter", ref.Channel)
}

func TestGitHubResolver_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	g := NewGitHubResolver(newTestGitHubClient(t, mux))

	_, err := g.Resolve(context.Background(), "https://github.com/owner/missing")
	assert.Error(t, err)
}
