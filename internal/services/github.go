package services

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"careerpilot/career-audit/internal/models"
)

const (
	// githubTimeout bounds every GitHub API request.
	githubTimeout = 30 * time.Second

	// topRepoCount is how many repositories are kept in the signal.
	topRepoCount = 5
)

// ProfileEnricher fetches the supplementary GitHub signal for a handle.
// It is strictly best-effort: a nil result is the valid "none" value and
// callers must never treat it as a failure.
type ProfileEnricher interface {
	FetchStats(ctx context.Context, handle string) *models.GitHubStats
}

type githubEnricher struct {
	client *gh.Client
}

// NewGitHubEnricher builds an enricher backed by the public GitHub API.
// A token raises the rate limit but is optional.
func NewGitHubEnricher(token string) ProfileEnricher {
	httpClient := &http.Client{Timeout: githubTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = githubTimeout
	}

	return &githubEnricher{client: gh.NewClient(httpClient)}
}

// NewGitHubEnricherWithClient wires an existing go-github client, used by
// tests to point at a fake API server.
func NewGitHubEnricherWithClient(client *gh.Client) ProfileEnricher {
	return &githubEnricher{client: client}
}

// HandleFromURL extracts a GitHub handle from a profile URL or returns the
// input unchanged when it is already a bare handle.
func HandleFromURL(raw string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}
	if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// FetchStats implements ProfileEnricher. One page of up to 100 repositories
// is fetched; star totals and language counts are aggregated across that
// page and the five most-starred repositories are retained with their
// topics. Only the first page is fetched, so the cost per request is bounded.
func (g *githubEnricher) FetchStats(ctx context.Context, handle string) *models.GitHubStats {
	if handle == "" {
		return nil
	}

	user, _, err := g.client.Users.Get(ctx, handle)
	if err != nil {
		log.Printf("⚠️  GitHub enrichment skipped for %q: %v\n", handle, err)
		return nil
	}

	repos, _, err := g.client.Repositories.ListByUser(ctx, handle, &gh.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: gh.ListOptions{PerPage: 100},
	})
	if err != nil {
		log.Printf("⚠️  GitHub repo listing failed for %q: %v\n", handle, err)
		return nil
	}

	totalStars := 0
	languages := make(map[string]int)
	for _, repo := range repos {
		totalStars += repo.GetStargazersCount()
		if lang := repo.GetLanguage(); lang != "" {
			languages[lang]++
		}
	}

	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].GetStargazersCount() > repos[j].GetStargazersCount()
	})

	top := repos
	if len(top) > topRepoCount {
		top = top[:topRepoCount]
	}

	topRepos := make([]models.RepoSummary, 0, len(top))
	for _, repo := range top {
		topRepos = append(topRepos, models.RepoSummary{
			Name:        repo.GetName(),
			Description: repo.GetDescription(),
			Stars:       repo.GetStargazersCount(),
			Language:    repo.GetLanguage(),
			Topics:      repo.Topics,
		})
	}

	return &models.GitHubStats{
		Username:    user.GetLogin(),
		PublicRepos: user.GetPublicRepos(),
		TotalStars:  totalStars,
		Languages:   languages,
		TopRepos:    topRepos,
	}
}
