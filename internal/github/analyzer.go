package github

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
)

// * Analyzer assembles RepoSnapshots. One instance owns one rate tracker and
// * one blob cache; it is meant to be driven by a single goroutine.
type Analyzer struct {
	client  *Client
	counter *TreeCounter
	now     func() time.Time
}

func NewAnalyzer(client *Client, cache BlobCache) *Analyzer {
	return &Analyzer{
		client:  client,
		counter: NewTreeCounter(client, cache),
		now:     time.Now,
	}
}

func (a *Analyzer) RateLimit() models.RateLimitInfo {
	return a.client.RateLimit()
}

func (a *Analyzer) CheckRateLimit(ctx context.Context) models.RateLimitInfo {
	return a.client.CheckRateLimit(ctx)
}

func report(progress models.ProgressFunc, phase string, percent int, message string) {
	if progress != nil {
		progress(phase, percent, message)
	}
}

// * AnalyzeCommitHistory captures repository metadata plus every commit newer
// * than the known SHA boundary, each with its tree totals.
func (a *Analyzer) AnalyzeCommitHistory(ctx context.Context, teamKey, repoURL string, known map[string]struct{}, progress models.ProgressFunc) (*models.RepoSnapshot, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	meta, err := a.client.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	branch := DefaultBranch(meta)
	report(progress, models.PhaseFetch, 20, fmt.Sprintf("Repo metadata loaded for %s", repo))

	langs, err := a.client.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	languages := FormatLanguages(langs)
	report(progress, models.PhaseFetch, 30, fmt.Sprintf("Languages analyzed for %s", repo))

	readme := a.client.HasReadme(ctx, owner, repo)
	report(progress, models.PhaseFetch, 40, fmt.Sprintf("README checked for %s", repo))

	total, err := a.client.CountCommits(ctx, owner, repo, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to count commits: %w", err)
	}
	report(progress, models.PhaseFetch, 50, fmt.Sprintf("Snapshot ready for %s", repo))

	if known == nil {
		known = map[string]struct{}{}
	}
	commits, err := a.client.ListNewCommits(ctx, owner, repo, branch, known, progress)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}

	for i := range commits {
		totals, err := a.counter.CountCommit(ctx, owner, repo, commits[i].SHA)
		if err != nil {
			return nil, fmt.Errorf("failed to count tree for %s: %w", commits[i].SHA, err)
		}
		commits[i].TotalFiles = totals.Files
		commits[i].TotalLines = totals.Lines
		report(progress, models.PhaseFetch, 95, fmt.Sprintf("Counted commit %d/%d for %s", i+1, len(commits), repo))
	}

	snap := &models.RepoSnapshot{
		TeamKey:                teamKey,
		RepoURL:                repoURL,
		Owner:                  owner,
		Repo:                   repo,
		Branch:                 branch,
		TotalCommitsAtSnapshot: total,
		Languages:              languages,
		ReadmePresent:          readme,
		SnapshotTimestampUTC:   a.now().UTC().Format(models.SnapshotTimeLayout),
		Commits:                commits,
	}

	report(progress, models.PhaseFetch, 100, fmt.Sprintf("GitHub fetch complete for %s", repo))
	logger.Info("Snapshot for %s/%s: %d new of %d total commits", owner, repo, len(commits), total)
	return snap, nil
}

const (
	overviewCommitsPerPage = 30
	recentMessageLimit     = 5
	lastCommitLayout       = "2006-01-02 15:04"
)

// * Analyze builds the overview of a team's repository from its metadata, the
// * first page of commits, languages and the readme probe.
func (a *Analyzer) Analyze(ctx context.Context, teamName, repoURL, track, members string, progress models.ProgressFunc) (*models.RepoAnalysis, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	meta, err := a.client.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	branch := DefaultBranch(meta)
	report(progress, models.PhaseFetch, 20, fmt.Sprintf("Repo metadata loaded for %s", repo))

	commits, err := a.client.ListCommitsPage(ctx, owner, repo, branch, 1, overviewCommitsPerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	messages := make([]string, 0, len(commits))
	for _, rc := range commits {
		messages = append(messages, rc.GetCommit().GetMessage())
	}
	var lastCommit string
	if len(commits) > 0 {
		if date := commits[0].GetCommit().GetCommitter().GetDate(); !date.IsZero() {
			lastCommit = date.UTC().Format(lastCommitLayout)
		}
	}
	report(progress, models.PhaseFetch, 60, fmt.Sprintf("Commit history pulled for %s", repo))

	langs, err := a.client.ListLanguages(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	report(progress, models.PhaseFetch, 80, fmt.Sprintf("Languages analyzed for %s", repo))

	readme := a.client.HasReadme(ctx, owner, repo)
	report(progress, models.PhaseFetch, 100, fmt.Sprintf("README checked for %s", repo))

	return &models.RepoAnalysis{
		TeamName:       teamName,
		RepoURL:        repoURL,
		Track:          track,
		Members:        members,
		IsPrivate:      meta.GetPrivate(),
		DefaultBranch:  branch,
		TotalCommits:   len(commits),
		LastCommit:     lastCommit,
		RecentMessages: CombineMessages(messages, recentMessageLimit),
		ReadmePresent:  readme,
		TopLanguages:   FormatLanguages(langs),
	}, nil
}

// * CombineMessages joins the first limit non-blank messages with " | "
func CombineMessages(messages []string, limit int) string {
	if limit <= 0 {
		return ""
	}
	kept := make([]string, 0, limit)
	for _, m := range messages {
		if len(kept) == limit {
			break
		}
		if m = strings.TrimSpace(m); m != "" {
			kept = append(kept, m)
		}
	}
	return strings.Join(kept, " | ")
}

// * FormatLanguages renders "Name (P%)" entries by byte size descending,
// * comma joined, with integer percentages of the overall total.
func FormatLanguages(langs map[string]int) string {
	if len(langs) == 0 {
		return ""
	}

	type langSize struct {
		name string
		size int
	}
	sizes := make([]langSize, 0, len(langs))
	total := 0
	for name, size := range langs {
		sizes = append(sizes, langSize{name, size})
		total += size
	}
	sort.Slice(sizes, func(i, j int) bool {
		if sizes[i].size != sizes[j].size {
			return sizes[i].size > sizes[j].size
		}
		return sizes[i].name < sizes[j].name
	})

	parts := make([]string, 0, len(sizes))
	for _, ls := range sizes {
		pct := 0.0
		if total > 0 {
			pct = float64(ls.size) / float64(total) * 100
		}
		parts = append(parts, fmt.Sprintf("%s (%d%%)", ls.name, int(math.RoundToEven(pct))))
	}
	return strings.Join(parts, ", ")
}
