package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	gh "github.com/google/go-github/v74/github"
)

const (
	commitsPerPage = 100
	// GitHub's own timestamp layout; commit dates are rendered back in it
	commitDateLayout = "2006-01-02T15:04:05Z"
)

var lastPagePattern = regexp.MustCompile(`[?&]page=(\d+)`)

func commitsPath(owner, repo, branch string, page, perPage int) string {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("sha", branch)
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return repoPath(owner, repo) + "/commits?" + q.Encode()
}

// * ListCommitsPage fetches one page of commits, newest first. A 404 reads as an empty page.
func (c *Client) ListCommitsPage(ctx context.Context, owner, repo, branch string, page, perPage int) ([]*gh.RepositoryCommit, error) {
	var commits []*gh.RepositoryCommit
	if _, err := c.getJSON(ctx, commitsPath(owner, repo, branch, page, perPage), &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// * ListNewCommits walks commit pages newest first and stops at the first SHA
// * in known. The result is chronological, oldest first. TotalLines and
// * TotalFiles are left for the caller to fill.
func (c *Client) ListNewCommits(ctx context.Context, owner, repo, branch string, known map[string]struct{}, progress models.ProgressFunc) ([]models.CommitEntry, error) {
	var results []models.CommitEntry
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		commits, err := c.ListCommitsPage(ctx, owner, repo, branch, page, commitsPerPage)
		if err != nil {
			return nil, err
		}
		if len(commits) == 0 {
			break
		}

		stop := false
		for _, rc := range commits {
			sha := strings.TrimSpace(rc.GetSHA())
			if sha == "" {
				continue
			}
			if _, ok := known[sha]; ok {
				stop = true
				break
			}
			if _, dup := seen[sha]; dup {
				continue
			}
			seen[sha] = struct{}{}
			results = append(results, toCommitEntry(sha, rc))
		}

		if progress != nil {
			progress(models.PhaseFetch, min(95, 50+page*10), fmt.Sprintf("Pulled commits page %d for %s", page, repo))
		}

		if stop {
			break
		}
	}

	logger.Info("Fetched %d new commits for %s/%s@%s", len(results), owner, repo, branch)
	slices.Reverse(results)
	return results, nil
}

func toCommitEntry(sha string, rc *gh.RepositoryCommit) models.CommitEntry {
	commit := rc.GetCommit()

	author := commit.GetAuthor().GetName()
	if author == "" {
		author = commit.GetCommitter().GetName()
	}

	date := commit.GetAuthor().GetDate()
	if date.IsZero() {
		date = commit.GetCommitter().GetDate()
	}
	var dateUTC string
	if !date.IsZero() {
		dateUTC = date.UTC().Format(commitDateLayout)
	}

	return models.CommitEntry{
		SHA:     sha,
		Message: collapseMessage(commit.GetMessage()),
		Author:  author,
		DateUTC: dateUTC,
	}
}

func collapseMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

// * CountCommits derives the branch's commit total from pagination metadata:
// * one commit per page, so the rel="last" page number is the count.
func (c *Client) CountCommits(ctx context.Context, owner, repo, branch string) (int, error) {
	resp, err := c.get(ctx, commitsPath(owner, repo, branch, 0, 1))
	if err != nil {
		return 0, err
	}
	if resp.Absent() {
		return 0, nil
	}

	if n, ok := lastPageFromLink(resp.Header.Get("Link")); ok {
		return n, nil
	}

	var commits []json.RawMessage
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &commits); err != nil {
			logger.Warn("could not parse commit count body for %s/%s: %v", owner, repo, err)
		}
	}
	if len(commits) > 0 {
		return 1, nil
	}
	return 0, nil
}

func lastPageFromLink(link string) (int, bool) {
	if !strings.Contains(link, `rel="last"`) {
		return 0, false
	}
	for _, part := range strings.Split(link, ",") {
		if !strings.Contains(part, `rel="last"`) {
			continue
		}
		m := lastPagePattern.FindStringSubmatch(part)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	return 0, false
}
