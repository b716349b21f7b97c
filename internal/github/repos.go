package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v74/github"
)

const defaultBranch = "main"

func repoPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
}

// * GetRepository returns repository metadata, or nil when GitHub answers 404
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (*gh.Repository, error) {
	var r gh.Repository
	found, err := c.getJSON(ctx, repoPath(owner, repo), &r)
	if err != nil || !found {
		return nil, err
	}
	return &r, nil
}

// * DefaultBranch falls back to "main" when metadata is absent or has no branch
func DefaultBranch(r *gh.Repository) string {
	if b := r.GetDefaultBranch(); b != "" {
		return b
	}
	return defaultBranch
}

// * ListLanguages returns bytes per language; empty when the repo is absent
func (c *Client) ListLanguages(ctx context.Context, owner, repo string) (map[string]int, error) {
	langs := map[string]int{}
	if _, err := c.getJSON(ctx, repoPath(owner, repo)+"/languages", &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// * HasReadme probes the readme endpoint; only a 200 counts as present and
// * any failure reads as absent
func (c *Client) HasReadme(ctx context.Context, owner, repo string) bool {
	resp, err := c.get(ctx, repoPath(owner, repo)+"/readme")
	if err != nil {
		return false
	}
	return resp.StatusCode == http.StatusOK
}
