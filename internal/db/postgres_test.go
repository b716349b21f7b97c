package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repoCols = []string{
	"id", "team_key", "repo_url", "owner", "name", "branch",
	"total_commits", "languages", "readme_present", "last_snapshot_at",
}

func newMock(t *testing.T) (*PostgresDB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return &PostgresDB{db: mockDB}, mock
}

func TestGetRepository(t *testing.T) {
	pg, mock := newMock(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(repoCols).
		AddRow(1, "alpha", "https://github.com/acme/widgets", "acme", "widgets", "main", 150, "Go (100%)", true, now)

	mock.ExpectQuery("SELECT id, team_key, repo_url").
		WithArgs("acme", "widgets").
		WillReturnRows(rows)

	repo, err := pg.GetRepository(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", repo.FullName())
	assert.Equal(t, 150, repo.TotalCommits)
	require.NotNil(t, repo.LastSnapshotAt)
	assert.Equal(t, now, *repo.LastSnapshotAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRepository_NotFound(t *testing.T) {
	pg, mock := newMock(t)

	mock.ExpectQuery("SELECT id, team_key, repo_url").
		WithArgs("acme", "gone").
		WillReturnError(sql.ErrNoRows)

	_, err := pg.GetRepository(context.Background(), "acme", "gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRepoNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRepositories(t *testing.T) {
	pg, mock := newMock(t)

	rows := sqlmock.NewRows(repoCols).
		AddRow(1, "alpha", "acme/widgets", "acme", "widgets", "main", 3, "", false, nil).
		AddRow(2, "beta", "acme/gadgets", "acme", "gadgets", "dev", 9, "Go (100%)", true, nil)

	mock.ExpectQuery("SELECT id, team_key, repo_url").WillReturnRows(rows)

	repos, err := pg.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "beta", repos[1].TeamKey)
	assert.Nil(t, repos[0].LastSnapshotAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKnownSHAs(t *testing.T) {
	pg, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"sha"}).AddRow("aaa").AddRow("bbb")
	mock.ExpectQuery("SELECT c.sha").
		WithArgs("alpha", "acme/widgets").
		WillReturnRows(rows)

	known, err := pg.KnownSHAs(context.Background(), "alpha", "acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"aaa": {}, "bbb": {}}, known)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCommits(t *testing.T) {
	pg, mock := newMock(t)

	rows := sqlmock.NewRows([]string{
		"id", "repository_id", "sno", "sha", "message", "author", "date_utc",
		"total_lines", "total_files", "languages", "snapshot_at",
	}).
		AddRow(10, 1, 1, "aaa", "init", "dev", "2024-01-01T00:00:01Z", 5, 3, "Go (100%)", "2024-03-09 14:05:06").
		AddRow(11, 1, 2, "bbb", "next", "dev", "2024-01-02T00:00:01Z", 7, 4, "Go (100%)", "2024-03-09 14:05:06")

	mock.ExpectQuery("SELECT id, repository_id, sno, sha").
		WithArgs("acme", "widgets").
		WillReturnRows(rows)

	commits, err := pg.GetCommits(context.Background(), "acme", "widgets")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, 2, commits[1].Sno)
	assert.Equal(t, 7, commits[1].TotalLines)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTopAuthors(t *testing.T) {
	pg, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"author", "commit_count"}).
		AddRow("dev", 12).
		AddRow("ops", 3)

	mock.ExpectQuery("SELECT author, COUNT").
		WithArgs("acme", "widgets", 5).
		WillReturnRows(rows)

	authors, err := pg.GetTopAuthors(context.Background(), "acme", "widgets", 5)
	require.NoError(t, err)
	assert.Equal(t, []models.AuthorCommitCount{
		{AuthorName: "dev", CommitCount: 12},
		{AuthorName: "ops", CommitCount: 3},
	}, authors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func testSnapshot() *models.RepoSnapshot {
	return &models.RepoSnapshot{
		TeamKey:                "alpha",
		RepoURL:                "https://github.com/acme/widgets",
		Owner:                  "acme",
		Repo:                   "widgets",
		Branch:                 "main",
		TotalCommitsAtSnapshot: 42,
		Languages:              "Go (100%)",
		ReadmePresent:          true,
		SnapshotTimestampUTC:   "2024-03-09 14:05:06",
		Commits: []models.CommitEntry{
			{SHA: "aaa", Message: "first", Author: "dev", DateUTC: "2024-01-01T00:00:01Z", TotalLines: 5, TotalFiles: 3},
			{SHA: "bbb", Message: "dup", Author: "dev", DateUTC: "2024-01-02T00:00:01Z", TotalLines: 6, TotalFiles: 3},
			{SHA: "ccc", Message: "third", Author: "ops", DateUTC: "2024-01-03T00:00:01Z", TotalLines: 9, TotalFiles: 4},
		},
	}
}

func TestSaveSnapshot(t *testing.T) {
	pg, mock := newMock(t)
	snap := testSnapshot()
	at := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO repositories").
		WithArgs("alpha", snap.RepoURL, "acme", "widgets", "main", 42, "Go (100%)", true, at).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(sno\\), 0\\)").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(3))
	mock.ExpectExec("INSERT INTO commits").
		WithArgs(7, 4, "aaa", "first", "dev", "2024-01-01T00:00:01Z", 5, 3, "Go (100%)", "2024-03-09 14:05:06").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// already stored: the serial is not consumed
	mock.ExpectExec("INSERT INTO commits").
		WithArgs(7, 5, "bbb", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO commits").
		WithArgs(7, 5, "ccc", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := pg.SaveSnapshot(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshot_RollsBackOnInsertError(t *testing.T) {
	pg, mock := newMock(t)
	snap := testSnapshot()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO repositories").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectExec("INSERT INTO commits").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	n, err := pg.SaveSnapshot(context.Background(), snap)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveSnapshot_RowsAffectedErrorAborts(t *testing.T) {
	pg, mock := newMock(t)
	snap := testSnapshot()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO repositories").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
	mock.ExpectExec("INSERT INTO commits").
		WillReturnResult(sqlmock.NewErrorResult(assert.AnError))
	mock.ExpectRollback()

	n, err := pg.SaveSnapshot(context.Background(), snap)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Contains(t, err.Error(), "DB_COMMIT_ERROR")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetRepository(t *testing.T) {
	pg, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE repositories").
		WithArgs("acme", "widgets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM commits").
		WithArgs("acme", "widgets").
		WillReturnResult(sqlmock.NewResult(0, 150))
	mock.ExpectCommit()

	err := pg.ResetRepository(context.Background(), "acme", "widgets")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetRepository_NotFound(t *testing.T) {
	pg, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE repositories").
		WithArgs("acme", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := pg.ResetRepository(context.Background(), "acme", "gone")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrRepoNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_Commit(t *testing.T) {
	pg, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := pg.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_Rollback(t *testing.T) {
	pg, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := pg.WithTransaction(context.Background(), func(tx *sql.Tx) error {
		return assert.AnError
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC), snapshotTime("2024-03-09 14:05:06"))
	assert.WithinDuration(t, time.Now().UTC(), snapshotTime("garbage"), time.Minute)
}
