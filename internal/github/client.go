// Package github links a bump to GitHub: the URL for drafting a release of
// the new tag, and optional creation of that release through the API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/bradleyfalzon/ghinstallation/v2"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// Environment variables read when the matching ClientConfig field is empty.
const (
	envToken   = "GITHUB_TOKEN"
	envAppID   = "GH_APP_ID"
	envAppKey  = "GH_APP_PRIVATE_KEY"
	envBaseURL = "GITHUB_API_URL"
)

// ClientConfig holds the credentials for the GitHub API client.
type ClientConfig struct {
	// Token is a personal access token. Falls back to GITHUB_TOKEN.
	Token string

	// AppID is a GitHub App ID. Falls back to GH_APP_ID.
	AppID int64

	// AppKeyPath is the GitHub App private key PEM file. Falls back to
	// GH_APP_PRIVATE_KEY.
	AppKeyPath string

	// BaseURL is the API URL of a GitHub Enterprise server. Falls back to
	// GITHUB_API_URL, then to the one derived from the configured github_url.
	BaseURL string

	// Owner selects the App installation to authenticate as.
	Owner string
}

// NewClient creates an authenticated GitHub API client. A token wins over
// App credentials.
func NewClient(ctx context.Context, cfg ClientConfig) (*gh.Client, error) {
	baseURL := resolveString(cfg.BaseURL, envBaseURL)

	if token := resolveString(cfg.Token, envToken); token != "" {
		httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
		return withBaseURL(gh.NewClient(httpClient), baseURL)
	}

	appID := cfg.AppID
	if appID == 0 {
		if v, err := strconv.ParseInt(os.Getenv(envAppID), 10, 64); err == nil {
			appID = v
		}
	}
	if keyPath := resolveString(cfg.AppKeyPath, envAppKey); appID != 0 && keyPath != "" {
		return newAppClient(ctx, appID, keyPath, cfg.Owner, baseURL)
	}

	return nil, errors.New("no GitHub authentication provided: set GITHUB_TOKEN, or GH_APP_ID and GH_APP_PRIVATE_KEY")
}

func withBaseURL(c *gh.Client, baseURL string) (*gh.Client, error) {
	if baseURL == "" {
		return c, nil
	}
	c, err := c.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, fmt.Errorf("setting enterprise URL: %w", err)
	}
	return c, nil
}

func newAppClient(ctx context.Context, appID int64, keyPath, owner, baseURL string) (*gh.Client, error) {
	appTransport, err := ghinstallation.NewAppsTransportKeyFromFile(http.DefaultTransport, appID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("creating GitHub App transport: %w", err)
	}
	if baseURL != "" {
		appTransport.BaseURL = baseURL
	}
	appClient, err := withBaseURL(gh.NewClient(&http.Client{Transport: appTransport}), baseURL)
	if err != nil {
		return nil, err
	}

	installationID, err := findInstallation(ctx, appClient, owner)
	if err != nil {
		return nil, err
	}

	installTransport, err := ghinstallation.NewKeyFromFile(http.DefaultTransport, appID, installationID, keyPath)
	if err != nil {
		return nil, fmt.Errorf("creating installation transport: %w", err)
	}
	if baseURL != "" {
		installTransport.BaseURL = baseURL
	}
	return withBaseURL(gh.NewClient(&http.Client{Transport: installTransport}), baseURL)
}

// findInstallation pages through the App installations looking for owner.
func findInstallation(ctx context.Context, client *gh.Client, owner string) (int64, error) {
	opts := &gh.ListOptions{PerPage: 100}
	for {
		installations, resp, err := client.Apps.ListInstallations(ctx, opts)
		if err != nil {
			return 0, fmt.Errorf("listing GitHub App installations: %w", err)
		}
		for _, inst := range installations {
			if inst.GetAccount().GetLogin() == owner {
				return inst.GetID(), nil
			}
		}
		if resp.NextPage == 0 {
			return 0, fmt.Errorf("no GitHub App installation found for owner %q", owner)
		}
		opts.Page = resp.NextPage
	}
}

// IsNotFoundError reports whether err is an HTTP 404 from the GitHub API.
func IsNotFoundError(err error) bool {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}

func resolveString(flag, envKey string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(envKey)
}
