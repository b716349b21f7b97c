package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/google/uuid"
)

// * Syncer snapshots one target; satisfied by *service.RepositoryService
type Syncer interface {
	SyncRepository(ctx context.Context, target models.Target, progress models.ProgressFunc) (*models.RepoSnapshot, error)
}

type CycleResult struct {
	ID        string
	Succeeded int
	Failed    int
	Skipped   bool
}

type SyncWorker struct {
	service  Syncer
	interval time.Duration
	targets  []models.Target

	// * mu serializes cycles with on-demand requests; running marks a cycle in flight
	mu      sync.Mutex
	running atomic.Bool
}

func NewSyncWorker(service Syncer, interval time.Duration, targets []models.Target) *SyncWorker {
	return &SyncWorker{
		service:  service,
		interval: interval,
		targets:  targets,
	}
}

// * Run syncs immediately, then once per interval until ctx is done
func (w *SyncWorker) Run(ctx context.Context) {
	w.RunCycle(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.RunCycle(ctx)

		case <-ctx.Done():
			logger.Info("stopping sync worker")
			return
		}
	}
}

// * RunCycle snapshots every target in order. A failing target is logged and
// * counted; the rest of the cycle continues. A call made while another cycle
// * is in flight returns immediately with Skipped set.
func (w *SyncWorker) RunCycle(ctx context.Context) CycleResult {
	result := CycleResult{ID: uuid.NewString()}

	if !w.running.CompareAndSwap(false, true) {
		logger.Warn("sync cycle %s skipped: previous cycle still running", result.ID)
		result.Skipped = true
		return result
	}
	defer w.running.Store(false)

	w.mu.Lock()
	defer w.mu.Unlock()

	started := time.Now()
	logger.Info("sync cycle %s started for %d repositories", result.ID, len(w.targets))

	for _, target := range w.targets {
		if ctx.Err() != nil {
			logger.Warn("sync cycle %s interrupted: %v", result.ID, ctx.Err())
			break
		}
		if _, err := w.syncTarget(ctx, result.ID, target); err != nil {
			result.Failed++
			logger.Error("sync of %s (%s) failed: %v", target.RepoURL, target.TeamKey, err)
			continue
		}
		result.Succeeded++
	}

	logger.Info("sync cycle %s finished in %s: %d succeeded, %d failed",
		result.ID, time.Since(started).Round(time.Millisecond), result.Succeeded, result.Failed)
	return result
}

// * HandleRequest runs one on-demand sync, waiting for any cycle in flight
func (w *SyncWorker) HandleRequest(ctx context.Context, req models.SyncRequest) error {
	_, err := w.Sync(ctx, req)
	return err
}

// * Sync is HandleRequest returning the snapshot taken
func (w *SyncWorker) Sync(ctx context.Context, req models.SyncRequest) (*models.RepoSnapshot, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	logger.Info("sync request %s for %s", id, req.RepoURL)
	return w.syncTarget(ctx, id, req.Target())
}

func (w *SyncWorker) syncTarget(ctx context.Context, runID string, target models.Target) (snap *models.RepoSnapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while syncing %s: %v\n%s", target.RepoURL, r, debug.Stack())
			snap, err = nil, fmt.Errorf("panic while syncing %s: %v", target.RepoURL, r)
		}
	}()

	return w.service.SyncRepository(ctx, target, progressLogger(runID))
}

func progressLogger(runID string) models.ProgressFunc {
	return func(phase string, percent int, message string) {
		logger.Debug("[%s] %s %d%% %s", runID, phase, percent, message)
	}
}
