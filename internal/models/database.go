package models

import (
	"context"
	"database/sql"
)

// * This interface defines all db operations needed by the application
type Database interface {
	// * Repository operations
	GetRepository(ctx context.Context, owner, name string) (*Repository, error)
	ListRepositories(ctx context.Context) ([]*Repository, error)
	ResetRepository(ctx context.Context, owner, name string) error

	// * Commit operations
	KnownSHAs(ctx context.Context, teamKey, repoURL string) (map[string]struct{}, error)
	GetCommits(ctx context.Context, owner, name string) ([]Commit, error)
	GetTopAuthors(ctx context.Context, owner, name string, limit int) ([]AuthorCommitCount, error)

	// * Snapshot persistence
	SaveSnapshot(ctx context.Context, snap *RepoSnapshot) (int, error)

	// * Transaction support
	WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}
