package models

// * SyncRequest asks for an out-of-cycle snapshot of one target
type SyncRequest struct {
	ID          string `json:"id"`
	TeamKey     string `json:"team_key"`
	RepoURL     string `json:"repo_url"`
	RequestedAt string `json:"requested_at"`
}

func (r SyncRequest) Target() Target {
	return Target{TeamKey: r.TeamKey, RepoURL: r.RepoURL}
}

// * SnapshotEvent announces a stored snapshot
type SnapshotEvent struct {
	ID           string `json:"id"`
	TeamKey      string `json:"team_key"`
	RepoURL      string `json:"repo_url"`
	Owner        string `json:"owner"`
	Repo         string `json:"repo"`
	Branch       string `json:"branch"`
	NewCommits   int    `json:"new_commits"`
	TotalCommits int    `json:"total_commits"`
	Languages    string `json:"languages"`
	SnapshotAt   string `json:"snapshot_at"`
}
