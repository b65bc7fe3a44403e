package reference

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

var youtubeRE = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]{11})`)

// CommandRunner runs an external program and returns its standard output
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// YouTubeResolver resolves video metadata with yt-dlp
type YouTubeResolver struct {
	run     CommandRunner
	timeout time.Duration
}

func NewYouTubeResolver(run CommandRunner) *YouTubeResolver {
	if run == nil {
		run = ExecRunner
	}
	return &YouTubeResolver{run: run, timeout: 15 * time.Second}
}

func (y *YouTubeResolver) Identify(url string) (string, string, bool) {
	m := youtubeRE.FindStringSubmatch(url)
	if m == nil {
		return "", "", false
	}
	return m[0], "youtube:" + m[1], true
}

type ytdlpInfo struct {
	Title    string  `json:"title"`
	Channel  string  `json:"channel"`
	Uploader string  `json:"uploader"`
	Duration float64 `json:"duration"`
}

func (y *YouTubeResolver) Resolve(ctx context.Context, url string) (Reference, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	out, err := y.run(ctx, "yt-dlp", "--dump-json", "--no-download", url)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to run yt-dlp: %w", err)
	}

	var info ytdlpInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return Reference{}, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	ref := Reference{URL: url, Title: info.Title, Channel: info.Channel}
	if ref.Title == "" {
		ref.Title = url
	}
	if ref.Channel == "" {
		ref.Channel = info.Uploader
	}
	if info.Duration > 0 {
		ref.Duration = FormatDuration(int(info.Duration))
	}
	return ref, nil
}

// FormatDuration renders seconds as H:MM:SS, or M:SS under an hour
func FormatDuration(seconds int) string {
	h, rem := seconds/3600, seconds%3600
	m, s := rem/60, rem%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
