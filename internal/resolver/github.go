// Package resolver turns "latest" requests into concrete version strings
// using the GitHub releases API.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

const requestTimeout = 30 * time.Second

// GitHub resolves the newest published release of a repository.
type GitHub struct {
	// BaseURL overrides the API endpoint, for tests.
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

// NewGitHub creates a resolver against the public GitHub API.
func NewGitHub() *GitHub {
	return &GitHub{
		BaseURL:   DefaultBaseURL,
		Client:    &http.Client{Timeout: requestTimeout},
		UserAgent: "opswitch",
	}
}

// Latest returns the tag of the newest release of "owner/repo" with a
// leading "v" trimmed, matching the bare version form the catalog templates
// expect.
func (g *GitHub) Latest(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", g.BaseURL, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.UserAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve latest %s: %w", repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolve latest %s: unexpected status %d", repo, resp.StatusCode)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release for %s: %w", repo, err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release for %s has no tag name", repo)
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}
