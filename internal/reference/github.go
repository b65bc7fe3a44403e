package reference

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v72/github"
)

var githubRE = regexp.MustCompile(`^https?://(?:www\.)?github\.com/([\w.-]+)/([\w.-]+)(?:/(issues|pull)/(\d+))?`)

// GitHubResolver resolves repository, issue and pull request links through the GitHub API
type GitHubResolver struct {
	client *github.Client
}

func NewGitHubResolver(client *github.Client) *GitHubResolver {
	return &GitHubResolver{client: client}
}

type githubTarget struct {
	owner  string
	repo   string
	number int // Zero for repository links
}

func parseGitHubURL(url string) (githubTarget, string, bool) {
	m := githubRE.FindStringSubmatch(url)
	if m == nil {
		return githubTarget{}, "", false
	}
	repo := strings.TrimSuffix(strings.TrimRight(m[2], "."), ".git")
	if repo == "" {
		return githubTarget{}, "", false
	}
	target := githubTarget{owner: m[1], repo: repo}
	canonical := fmt.Sprintf("https://github.com/%s/%s", target.owner, target.repo)
	if m[4] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil {
			return githubTarget{}, "", false
		}
		target.number = n
		canonical += fmt.Sprintf("/%s/%d", m[3], n)
	}
	return target, canonical, true
}

func (g *GitHubResolver) Identify(url string) (string, string, bool) {
	target, canonical, ok := parseGitHubURL(url)
	if !ok {
		return "", "", false
	}
	key := fmt.Sprintf("github:%s/%s", strings.ToLower(target.owner), strings.ToLower(target.repo))
	if target.number != 0 {
		key += "#" + strconv.Itoa(target.number)
	}
	return canonical, key, true
}

func (g *GitHubResolver) Resolve(ctx context.Context, url string) (Reference, error) {
	target, canonical, ok := parseGitHubURL(url)
	if !ok {
		return Reference{}, fmt.Errorf("not a GitHub URL: %s", url)
	}

	if target.number != 0 {
		// The issues endpoint serves pull requests too
		issue, _, err := g.client.Issues.Get(ctx, target.owner, target.repo, target.number)
		if err != nil {
			return Reference{}, fmt.Errorf("failed to get issue %s/%s#%d: %w", target.owner, target.repo, target.number, err)
		}
		return Reference{
			URL:     canonical,
			Title:   fmt.Sprintf("%s/%s#%d: %s", target.owner, target.repo, target.number, issue.GetTitle()),
			Channel: issue.GetUser().GetLogin(),
		}, nil
	}

	repo, _, err := g.client.Repositories.Get(ctx, target.owner, target.repo)
	if err != nil {
		return Reference{}, fmt.Errorf("failed to get repository %s/%s: %w", target.owner, target.repo, err)
	}
	title := repo.GetFullName()
	if title == "" {
		title = target.owner + "/" + target.repo
	}
	if desc := strings.TrimSpace(repo.GetDescription()); desc != "" {
		title += ": " + desc
	}
	return Reference{
		URL:     canonical,
		Title:   title,
		Channel: repo.GetOwner().GetLogin(),
	}, nil
}
