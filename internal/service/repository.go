package service

import (
	"context"
	"fmt"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/internal/report"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/google/uuid"
)

// * Analyzer produces snapshots from GitHub; satisfied by *github.Analyzer
type Analyzer interface {
	AnalyzeCommitHistory(ctx context.Context, teamKey, repoURL string, known map[string]struct{}, progress models.ProgressFunc) (*models.RepoSnapshot, error)
	Analyze(ctx context.Context, teamName, repoURL, track, members string, progress models.ProgressFunc) (*models.RepoAnalysis, error)
	RateLimit() models.RateLimitInfo
	CheckRateLimit(ctx context.Context) models.RateLimitInfo
}

// * SnapshotPublisher announces stored snapshots; satisfied by *queue.RabbitMQ
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, event models.SnapshotEvent) error
}

type RepositoryService struct {
	analyzer  Analyzer
	db        models.Database
	publisher SnapshotPublisher
}

func NewRepositoryService(analyzer Analyzer, db models.Database) *RepositoryService {
	return &RepositoryService{
		analyzer: analyzer,
		db:       db,
	}
}

// * WithPublisher enables snapshot events; nil disables them
func (s *RepositoryService) WithPublisher(p SnapshotPublisher) *RepositoryService {
	s.publisher = p
	return s
}

// * SyncRepository takes a snapshot of one target, resuming after the commits
// * already stored for it, and persists the result
func (s *RepositoryService) SyncRepository(ctx context.Context, target models.Target, progress models.ProgressFunc) (*models.RepoSnapshot, error) {
	logger.Info("Syncing %s for %s...", target.RepoURL, target.TeamKey)

	known, err := s.db.KnownSHAs(ctx, target.TeamKey, target.RepoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to load known commits: %w", err)
	}

	snap, err := s.analyzer.AnalyzeCommitHistory(ctx, target.TeamKey, target.RepoURL, known, progress)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress(models.PhaseProcess, 0, fmt.Sprintf("Saving %d commits for %s", len(snap.Commits), snap.Repo))
	}

	inserted, err := s.db.SaveSnapshot(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	if progress != nil {
		progress(models.PhaseProcess, 100, fmt.Sprintf("Saved %d commits for %s", inserted, snap.Repo))
	}
	logger.Info("Successfully synced %s/%s: %d new commits stored", snap.Owner, snap.Repo, inserted)

	s.publish(ctx, snap, inserted)
	return snap, nil
}

func (s *RepositoryService) publish(ctx context.Context, snap *models.RepoSnapshot, inserted int) {
	if s.publisher == nil {
		return
	}

	event := models.SnapshotEvent{
		ID:           uuid.NewString(),
		TeamKey:      snap.TeamKey,
		RepoURL:      snap.RepoURL,
		Owner:        snap.Owner,
		Repo:         snap.Repo,
		Branch:       snap.Branch,
		NewCommits:   inserted,
		TotalCommits: snap.TotalCommitsAtSnapshot,
		Languages:    snap.Languages,
		SnapshotAt:   snap.SnapshotTimestampUTC,
	}
	if err := s.publisher.PublishSnapshot(ctx, event); err != nil {
		logger.Warn("failed to publish snapshot event for %s/%s: %v", snap.Owner, snap.Repo, err)
	}
}

func (s *RepositoryService) GetRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	return s.db.GetRepository(ctx, owner, name)
}

func (s *RepositoryService) ListAllRepositories(ctx context.Context) ([]*models.Repository, error) {
	return s.db.ListRepositories(ctx)
}

func (s *RepositoryService) GetCommits(ctx context.Context, owner, name string) ([]models.Commit, error) {
	return s.db.GetCommits(ctx, owner, name)
}

// * GetRows renders the stored history of owner/name as sheet rows
func (s *RepositoryService) GetRows(ctx context.Context, owner, name string) ([]report.Row, error) {
	commits, err := s.db.GetCommits(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	return report.StoredRows(commits), nil
}

func (s *RepositoryService) GetTopAuthors(ctx context.Context, owner, name string, limit int) ([]models.AuthorCommitCount, error) {
	return s.db.GetTopAuthors(ctx, owner, name, limit)
}

func (s *RepositoryService) ResetRepository(ctx context.Context, owner, name string) error {
	return s.db.ResetRepository(ctx, owner, name)
}

func (s *RepositoryService) RateLimit() models.RateLimitInfo {
	return s.analyzer.RateLimit()
}

func (s *RepositoryService) CheckRateLimit(ctx context.Context) models.RateLimitInfo {
	return s.analyzer.CheckRateLimit(ctx)
}

// * ReportRateLimit asks GitHub for the current quota and logs it. Run once at
// * startup so the tracker is known before the first cycle.
func (s *RepositoryService) ReportRateLimit(ctx context.Context) models.RateLimitInfo {
	info := s.analyzer.CheckRateLimit(ctx)
	if info.Remaining == nil || info.Limit == nil {
		logger.Warn("GitHub rate limit unknown at startup")
		return info
	}
	logger.Info("GitHub rate limit: %d of %d requests remaining", *info.Remaining, *info.Limit)
	return info
}

// * Overview analyzes a repository for the per-team overview sheet. Nothing
// * is stored.
func (s *RepositoryService) Overview(ctx context.Context, target models.Target, track, members string) (*report.OverviewRow, error) {
	analysis, err := s.analyzer.Analyze(ctx, target.TeamKey, target.RepoURL, track, members, nil)
	if err != nil {
		return nil, err
	}
	row := report.Overview(analysis)
	return &row, nil
}
