package models

import "time"

// * Repository is the stored summary of the latest snapshot of a tracked repo
type Repository struct {
	ID             int        `json:"id"`
	TeamKey        string     `json:"team_key"`
	RepoURL        string     `json:"repo_url"`
	Owner          string     `json:"owner"`
	Name           string     `json:"name"`
	Branch         string     `json:"branch"`
	TotalCommits   int        `json:"total_commits"`
	Languages      string     `json:"languages"`
	ReadmePresent  bool       `json:"readme_present"`
	LastSnapshotAt *time.Time `json:"last_snapshot_at,omitempty"`
}

func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// * Commit is a stored commit history row
type Commit struct {
	ID           int    `json:"id"`
	RepositoryID int    `json:"repository_id"`
	Sno          int    `json:"sno"`
	SHA          string `json:"sha"`
	Message      string `json:"message"`
	Author       string `json:"author"`
	DateUTC      string `json:"date_utc"`
	TotalLines   int    `json:"total_lines"`
	TotalFiles   int    `json:"total_files"`
	Languages    string `json:"languages"`
	SnapshotAt   string `json:"snapshot_at"`
}

type AuthorCommitCount struct {
	AuthorName  string `json:"author_name"`
	CommitCount int    `json:"commit_count"`
}
