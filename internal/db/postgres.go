package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

type PostgresDB struct {
	db *sql.DB
}

func NewPostgresDB(url string) (*PostgresDB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to open database connection",
			"Could not initialize database connection",
			err,
			errors.LevelError,
		)
	}

	// * Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// * Verify connection
	if err := db.Ping(); err != nil {
		return nil, errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to verify database connection",
			"Database ping failed",
			err,
			errors.LevelError,
		)
	}

	logger.Info("connected to database successfully 🎉")
	return &PostgresDB{db: db}, nil
}

func (p *PostgresDB) Migrate() error {
	driver, err := postgres.WithInstance(p.db, &postgres.Config{})
	if err != nil {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to create migration driver",
			"Could not initialize migration driver instance",
			err,
			errors.LevelError,
		)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to create migration instance",
			"Could not create migration instance with database",
			err,
			errors.LevelError,
		)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.New(
			"DB_MIGRATION_ERROR",
			"Failed to run migrations",
			"Migration up operation failed",
			err,
			errors.LevelError,
		)
	}

	return nil
}

func (p *PostgresDB) Close() error {
	if err := p.db.Close(); err != nil {
		return errors.New(
			"DB_CONNECTION_ERROR",
			"Failed to close database connection",
			"Error while closing database connection",
			err,
			errors.LevelWarning,
		)
	}
	return nil
}

func (p *PostgresDB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.New(
			"DB_TRANSACTION_ERROR",
			"Failed to begin transaction",
			"Could not start database transaction",
			err,
			errors.LevelError,
		)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.New(
				"DB_TRANSACTION_ERROR",
				"Transaction failed and rollback encountered error",
				"Transaction error with additional rollback failure",
				fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr),
				errors.LevelError,
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.New(
			"DB_TRANSACTION_ERROR",
			"Failed to commit transaction",
			"Error while committing transaction",
			err,
			errors.LevelError,
		)
	}

	return nil
}

// * repositoryByName picks the most recently snapshotted row for owner/name;
// * the same repository may be tracked by more than one team
const repositoryByName = `
		SELECT id FROM repositories
		WHERE owner = $1 AND name = $2
		ORDER BY last_snapshot_at DESC NULLS LAST, id DESC
		LIMIT 1
	`

const repositoryColumns = `id, team_key, repo_url, owner, name, branch, total_commits, languages, readme_present, last_snapshot_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepository(row rowScanner) (*models.Repository, error) {
	var repo models.Repository
	var lastSnapshot sql.NullTime

	err := row.Scan(
		&repo.ID, &repo.TeamKey, &repo.RepoURL, &repo.Owner, &repo.Name, &repo.Branch,
		&repo.TotalCommits, &repo.Languages, &repo.ReadmePresent, &lastSnapshot,
	)
	if err != nil {
		return nil, err
	}

	if lastSnapshot.Valid {
		repo.LastSnapshotAt = &lastSnapshot.Time
	}
	return &repo, nil
}

func repoNotFound(owner, name string, cause error) error {
	return errors.New(
		errors.RefRepoNotFound,
		"Repository not found",
		fmt.Sprintf("Repository '%s/%s' does not exist", owner, name),
		cause,
		errors.LevelInfo,
	)
}

func (p *PostgresDB) GetRepository(ctx context.Context, owner, name string) (*models.Repository, error) {
	query := `
		SELECT ` + repositoryColumns + `
		FROM repositories
		WHERE owner = $1 AND name = $2
		ORDER BY last_snapshot_at DESC NULLS LAST, id DESC
		LIMIT 1
	`

	repo, err := scanRepository(p.db.QueryRowContext(ctx, query, owner, name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repoNotFound(owner, name, err)
		}
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to fetch repository",
			fmt.Sprintf("Could not fetch repository '%s/%s'", owner, name),
			err,
			errors.LevelError,
		)
	}

	return repo, nil
}

func (p *PostgresDB) ListRepositories(ctx context.Context) ([]*models.Repository, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT `+repositoryColumns+` FROM repositories ORDER BY team_key, repo_url`)
	if err != nil {
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to list repositories",
			"Could not query repositories",
			err,
			errors.LevelError,
		)
	}
	defer rows.Close()

	var repos []*models.Repository
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, errors.New(
				"DB_REPOSITORY_ERROR",
				"Failed to scan repository",
				"Error while scanning repository row",
				err,
				errors.LevelError,
			)
		}
		repos = append(repos, repo)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to process repositories",
			"Error while processing repository rows",
			err,
			errors.LevelError,
		)
	}

	return repos, nil
}

// * KnownSHAs returns every stored commit SHA for one target. It is the
// * low-water mark the pager stops at.
func (p *PostgresDB) KnownSHAs(ctx context.Context, teamKey, repoURL string) (map[string]struct{}, error) {
	query := `
		SELECT c.sha
		FROM commits c
		JOIN repositories r ON c.repository_id = r.id
		WHERE r.team_key = $1 AND r.repo_url = $2
	`

	rows, err := p.db.QueryContext(ctx, query, teamKey, repoURL)
	if err != nil {
		return nil, errors.New(
			"DB_COMMIT_ERROR",
			"Failed to query known commits",
			fmt.Sprintf("Could not fetch stored SHAs for '%s'", repoURL),
			err,
			errors.LevelError,
		)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var sha string
		if err := rows.Scan(&sha); err != nil {
			return nil, errors.New(
				"DB_COMMIT_ERROR",
				"Failed to scan commit sha",
				"Error while scanning known SHA row",
				err,
				errors.LevelError,
			)
		}
		known[sha] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.New(
			"DB_COMMIT_ERROR",
			"Failed to process known commits",
			"Error while processing known SHA rows",
			err,
			errors.LevelError,
		)
	}

	return known, nil
}

func (p *PostgresDB) GetCommits(ctx context.Context, owner, name string) ([]models.Commit, error) {
	query := `
		SELECT id, repository_id, sno, sha, message, author, date_utc,
		       total_lines, total_files, languages, snapshot_at
		FROM commits
		WHERE repository_id = (` + repositoryByName + `)
		ORDER BY sno ASC
	`

	rows, err := p.db.QueryContext(ctx, query, owner, name)
	if err != nil {
		return nil, errors.New(
			"DB_COMMIT_ERROR",
			"Failed to query commits",
			fmt.Sprintf("Could not fetch commits for repository '%s/%s'", owner, name),
			err,
			errors.LevelError,
		)
	}
	defer rows.Close()

	var commits []models.Commit
	for rows.Next() {
		var c models.Commit
		err := rows.Scan(
			&c.ID, &c.RepositoryID, &c.Sno, &c.SHA, &c.Message, &c.Author, &c.DateUTC,
			&c.TotalLines, &c.TotalFiles, &c.Languages, &c.SnapshotAt,
		)
		if err != nil {
			return nil, errors.New(
				"DB_COMMIT_ERROR",
				"Failed to scan commit",
				"Error while scanning commit row",
				err,
				errors.LevelError,
			)
		}
		commits = append(commits, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.New(
			"DB_COMMIT_ERROR",
			"Failed to process commits",
			"Error while processing commit rows",
			err,
			errors.LevelError,
		)
	}

	return commits, nil
}

func (p *PostgresDB) GetTopAuthors(ctx context.Context, owner, name string, limit int) ([]models.AuthorCommitCount, error) {
	query := `
		SELECT author, COUNT(*) AS commit_count
		FROM commits
		WHERE repository_id = (` + repositoryByName + `)
		GROUP BY author
		ORDER BY commit_count DESC, author ASC
		LIMIT $3
	`

	rows, err := p.db.QueryContext(ctx, query, owner, name, limit)
	if err != nil {
		return nil, errors.New(
			"DB_AUTHOR_ERROR",
			"Failed to query top authors",
			fmt.Sprintf("Could not fetch top authors for repository '%s/%s'", owner, name),
			err,
			errors.LevelError,
		)
	}
	defer rows.Close()

	var results []models.AuthorCommitCount
	for rows.Next() {
		var acc models.AuthorCommitCount
		if err := rows.Scan(&acc.AuthorName, &acc.CommitCount); err != nil {
			return nil, errors.New(
				"DB_AUTHOR_ERROR",
				"Failed to scan author commit count",
				"Error while scanning author commit count row",
				err,
				errors.LevelError,
			)
		}
		results = append(results, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.New(
			"DB_AUTHOR_ERROR",
			"Failed to process top authors",
			"Error while processing author rows",
			err,
			errors.LevelError,
		)
	}

	return results, nil
}

// * ResetRepository drops stored commits for owner/name so the next sync
// * collects the full history again
func (p *PostgresDB) ResetRepository(ctx context.Context, owner, name string) error {
	return p.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE repositories
			SET last_snapshot_at = NULL, total_commits = 0
			WHERE owner = $1 AND name = $2
		`, owner, name)
		if err != nil {
			return errors.New(
				"DB_RESET_ERROR",
				"Failed to update repository",
				fmt.Sprintf("Could not clear snapshot time for repository '%s/%s'", owner, name),
				err,
				errors.LevelError,
			)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return repoNotFound(owner, name, nil)
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM commits
			WHERE repository_id IN (
				SELECT id FROM repositories WHERE owner = $1 AND name = $2
			)
		`, owner, name)
		if err != nil {
			return errors.New(
				"DB_RESET_ERROR",
				"Failed to delete commits",
				fmt.Sprintf("Could not delete commits for repository '%s/%s'", owner, name),
				err,
				errors.LevelError,
			)
		}

		logger.Info("Reset collection for %s/%s", owner, name)
		return nil
	})
}

// * SaveSnapshot upserts the repository summary and appends the snapshot's
// * commits in one transaction. Serial numbers continue after the stored
// * maximum; commits already stored are skipped. Returns the rows inserted.
func (p *PostgresDB) SaveSnapshot(ctx context.Context, snap *models.RepoSnapshot) (int, error) {
	inserted := 0

	err := p.WithTransaction(ctx, func(tx *sql.Tx) error {
		repoID, err := p.upsertRepositoryTx(ctx, tx, snap)
		if err != nil {
			return err
		}

		var sno int
		err = tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(sno), 0) FROM commits WHERE repository_id = $1`, repoID,
		).Scan(&sno)
		if err != nil {
			return errors.New(
				"DB_COMMIT_ERROR",
				"Failed to read commit serial",
				fmt.Sprintf("Could not read max serial for repository '%d'", repoID),
				err,
				errors.LevelError,
			)
		}

		for i := range snap.Commits {
			ok, err := p.insertCommitTx(ctx, tx, repoID, sno+1, snap, &snap.Commits[i])
			if err != nil {
				return err
			}
			if ok {
				sno++
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

func (p *PostgresDB) upsertRepositoryTx(ctx context.Context, tx *sql.Tx, snap *models.RepoSnapshot) (int, error) {
	query := `
		INSERT INTO repositories (
			team_key, repo_url, owner, name, branch, total_commits,
			languages, readme_present, last_snapshot_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT(team_key, repo_url) DO UPDATE SET
			owner = EXCLUDED.owner,
			name = EXCLUDED.name,
			branch = EXCLUDED.branch,
			total_commits = EXCLUDED.total_commits,
			languages = EXCLUDED.languages,
			readme_present = EXCLUDED.readme_present,
			last_snapshot_at = EXCLUDED.last_snapshot_at
		RETURNING id
	`

	var id int
	err := tx.QueryRowContext(ctx, query,
		snap.TeamKey, snap.RepoURL, snap.Owner, snap.Repo, snap.Branch, snap.TotalCommitsAtSnapshot,
		snap.Languages, snap.ReadmePresent, snapshotTime(snap.SnapshotTimestampUTC),
	).Scan(&id)
	if err != nil {
		return 0, errors.New(
			"DB_REPOSITORY_ERROR",
			"Failed to upsert repository in transaction",
			fmt.Sprintf("Could not upsert repository '%s/%s' in transaction", snap.Owner, snap.Repo),
			err,
			errors.LevelError,
		)
	}
	return id, nil
}

func (p *PostgresDB) insertCommitTx(ctx context.Context, tx *sql.Tx, repoID, sno int, snap *models.RepoSnapshot, c *models.CommitEntry) (bool, error) {
	query := `
		INSERT INTO commits (
			repository_id, sno, sha, message, author, date_utc,
			total_lines, total_files, languages, snapshot_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT(repository_id, sha) DO NOTHING
	`

	res, err := tx.ExecContext(ctx, query,
		repoID, sno, c.SHA, c.Message, c.Author, c.DateUTC,
		c.TotalLines, c.TotalFiles, snap.Languages, snap.SnapshotTimestampUTC,
	)
	if err != nil {
		return false, errors.New(
			"DB_COMMIT_ERROR",
			"Failed to insert commit in transaction",
			fmt.Sprintf("Could not insert commit '%s' in transaction", c.SHA),
			err,
			errors.LevelError,
		)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.New(
			"DB_COMMIT_ERROR",
			"Failed to confirm commit insert",
			fmt.Sprintf("Could not read rows affected for commit '%s'", c.SHA),
			err,
			errors.LevelError,
		)
	}
	return n > 0, nil
}

func snapshotTime(s string) time.Time {
	t, err := time.ParseInLocation(models.SnapshotTimeLayout, s, time.UTC)
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
