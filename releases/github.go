// Package releases lists upstream product releases from GitHub.
package releases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/networkteam/whmcsmp/marketplace"
)

// GitHubLister implements marketplace.ReleaseLister on top of the GitHub
// releases API. Unauthenticated requests are heavily rate limited, so a
// token should always be configured for CI use.
type GitHubLister struct {
	client *github.Client
	owner  string
	repo   string
	lg     *slog.Logger
}

type GitHubListerOptions struct {
	// Logger for diagnostics.
	// Default: nil, will use slog.Default()
	Logger *slog.Logger
}

// NewGitHubLister creates a lister for a repository reference in
// "owner/name" form. An empty token leaves the client unauthenticated.
func NewGitHubLister(repoRef, token string) (*GitHubLister, error) {
	return NewGitHubListerWithOptions(repoRef, token, GitHubListerOptions{})
}

func NewGitHubListerWithOptions(repoRef, token string, options GitHubListerOptions) (*GitHubLister, error) {
	owner, repo, ok := strings.Cut(repoRef, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository reference %q, expected owner/name", repoRef)
	}

	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	lg := options.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &GitHubLister{
		client: client,
		owner:  owner,
		repo:   repo,
		lg:     lg,
	}, nil
}

// ListReleases returns all releases of the repository, newest first.
func (l *GitHubLister) ListReleases(ctx context.Context) ([]marketplace.Release, error) {
	l.lg.Info("Getting releases from GitHub", "owner", l.owner, "repo", l.repo)

	var all []marketplace.Release
	opts := &github.ListOptions{PerPage: 100}
	for {
		page, resp, err := l.client.Repositories.ListReleases(ctx, l.owner, l.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing releases of %s/%s: %w", l.owner, l.repo, err)
		}
		for _, r := range page {
			release := marketplace.Release{
				Tag:         r.GetTagName(),
				Notes:       r.GetBody(),
				PublishedAt: r.GetPublishedAt().Time,
			}
			l.lg.Debug("Detected GitHub release", "version", release.Version())
			all = append(all, release)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}
