package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"
)

// ReleaseURL returns the page that drafts a new release for tag.
func ReleaseURL(githubURL, tag string) string {
	if !strings.HasSuffix(githubURL, "/") {
		githubURL += "/"
	}
	return githubURL + "releases/new?" + url.Values{"tag": {tag}}.Encode()
}

// ParseRepoURL extracts the owner and repository name from a repository
// web URL such as https://github.com/org/repo.
func ParseRepoURL(githubURL string) (owner, repo string, err error) {
	u, err := url.Parse(githubURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing github_url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Host == "" || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("github_url %q does not name a repository", githubURL)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// EnterpriseAPIURL returns the API base URL for a repository hosted on a
// GitHub Enterprise server, or "" for github.com.
func EnterpriseAPIURL(githubURL string) string {
	u, err := url.Parse(githubURL)
	if err != nil || u.Host == "" || u.Host == "github.com" || u.Host == "www.github.com" {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/api/v3/"
}

// Releaser creates releases in one repository.
type Releaser struct {
	client *gh.Client
	owner  string
	repo   string
	logger *slog.Logger
}

// Option configures a Releaser.
type Option func(*Releaser)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Releaser) { r.logger = l }
}

// NewReleaser creates a Releaser for owner/repo.
func NewReleaser(client *gh.Client, owner, repo string, opts ...Option) *Releaser {
	r := &Releaser{
		client: client,
		owner:  owner,
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateRelease publishes a release for an already pushed tag, with notes
// generated by GitHub, and returns its page URL. An existing release for
// the tag is returned as is.
func (r *Releaser) CreateRelease(ctx context.Context, tag string) (string, error) {
	existing, _, err := r.client.Repositories.GetReleaseByTag(ctx, r.owner, r.repo, tag)
	switch {
	case err == nil:
		r.logger.Debug("release already exists", "tag", tag, "id", existing.GetID())
		return existing.GetHTMLURL(), nil
	case !IsNotFoundError(err):
		return "", fmt.Errorf("looking up release %s: %w", tag, err)
	}

	rel, _, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.repo, &gh.RepositoryRelease{
		TagName:              gh.Ptr(tag),
		Name:                 gh.Ptr(tag),
		GenerateReleaseNotes: gh.Ptr(true),
	})
	if err != nil {
		return "", fmt.Errorf("creating release %s in %s/%s: %w", tag, r.owner, r.repo, err)
	}
	r.logger.Debug("created release", "tag", tag, "id", rel.GetID())
	return rel.GetHTMLURL(), nil
}
