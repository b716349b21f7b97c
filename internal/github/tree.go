package github

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	gh "github.com/google/go-github/v74/github"
)

// * BlobCache maps blob SHA to line count. Blobs are content addressed so an
// * entry never changes once written.
type BlobCache interface {
	Get(ctx context.Context, sha string) (int, bool)
	Add(ctx context.Context, sha string, lines int)
}

// * TreeTotals aggregates every blob of one commit's recursive tree
type TreeTotals struct {
	Files int
	Lines int
}

// * GetTree fetches the recursive tree for a commit or tree SHA; nil on 404
func (c *Client) GetTree(ctx context.Context, owner, repo, sha string) (*gh.Tree, error) {
	var tree gh.Tree
	path := fmt.Sprintf("%s/git/trees/%s?recursive=1", repoPath(owner, repo), url.PathEscape(sha))
	found, err := c.getJSON(ctx, path, &tree)
	if err != nil || !found {
		return nil, err
	}
	return &tree, nil
}

// * GetBlobContent returns decoded blob bytes; found is false on 404
func (c *Client) GetBlobContent(ctx context.Context, owner, repo, sha string) (data []byte, found bool, err error) {
	var blob gh.Blob
	path := fmt.Sprintf("%s/git/blobs/%s", repoPath(owner, repo), url.PathEscape(sha))
	found, err = c.getJSON(ctx, path, &blob)
	if err != nil || !found {
		return nil, found, err
	}

	if strings.EqualFold(blob.GetEncoding(), "base64") {
		// GitHub wraps base64 content at 60 columns
		raw := strings.NewReplacer("\n", "", "\r", "").Replace(blob.GetContent())
		data, err = base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, true, fmt.Errorf("decode blob %s: %w", sha, err)
		}
		return data, true, nil
	}
	return []byte(blob.GetContent()), true, nil
}

// * TreeCounter computes file and line totals for commits, caching line
// * counts per blob SHA for the lifetime of the counter.
type TreeCounter struct {
	client *Client
	cache  BlobCache
}

func NewTreeCounter(client *Client, cache BlobCache) *TreeCounter {
	return &TreeCounter{client: client, cache: cache}
}

// * CountCommit totals a commit's tree. A missing tree yields zero totals;
// * other tree failures are returned.
func (t *TreeCounter) CountCommit(ctx context.Context, owner, repo, sha string) (TreeTotals, error) {
	var totals TreeTotals

	tree, err := t.client.GetTree(ctx, owner, repo, sha)
	if err != nil {
		return totals, err
	}
	if tree == nil {
		logger.Warn("tree for %s/%s@%s not found", owner, repo, sha)
		return totals, nil
	}
	if tree.GetTruncated() {
		logger.Warn("tree for %s/%s@%s was truncated by GitHub; totals are partial", owner, repo, sha)
	}

	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		totals.Files++
		if IsBinaryPath(entry.GetPath()) {
			continue
		}
		totals.Lines += t.BlobLines(ctx, owner, repo, entry.GetSHA())
	}

	return totals, nil
}

// * BlobLines returns the line count of one blob. Fetch and decode failures
// * count as zero and are not cached, so a later call may retry them.
func (t *TreeCounter) BlobLines(ctx context.Context, owner, repo, sha string) int {
	if sha == "" {
		return 0
	}
	if n, ok := t.cache.Get(ctx, sha); ok {
		return n
	}

	data, found, err := t.client.GetBlobContent(ctx, owner, repo, sha)
	if err != nil {
		logger.Debug("blob %s in %s/%s counted as 0: %v", sha, owner, repo, err)
		return 0
	}
	if !found {
		return 0
	}

	lines := 0
	if !LooksBinary(data) {
		lines = CountLines(data)
	}
	t.cache.Add(ctx, sha, lines)
	return lines
}
