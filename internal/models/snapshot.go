package models

// * CommitEntry is one newly observed commit with its tree totals. Never mutated after creation.
type CommitEntry struct {
	SHA        string `json:"sha"`
	Message    string `json:"message"`
	Author     string `json:"author"`
	DateUTC    string `json:"date_utc"`
	TotalLines int    `json:"total_lines"`
	TotalFiles int    `json:"total_files"`
}

// * RepoSnapshot is one point-in-time capture of a repository.
// * Commits are ordered oldest first.
type RepoSnapshot struct {
	TeamKey                string        `json:"team_key"`
	RepoURL                string        `json:"repo_url"`
	Owner                  string        `json:"owner"`
	Repo                   string        `json:"repo"`
	Branch                 string        `json:"branch"`
	TotalCommitsAtSnapshot int           `json:"total_commits_at_snapshot"`
	Languages              string        `json:"languages"`
	ReadmePresent          bool          `json:"readme_present"`
	SnapshotTimestampUTC   string        `json:"snapshot_timestamp_utc"`
	Commits                []CommitEntry `json:"commits"`
}

// * RateLimitInfo holds the last known core quota. Nil fields mean unknown.
type RateLimitInfo struct {
	Remaining *int `json:"remaining"`
	Limit     *int `json:"limit"`
}

// * ProgressFunc receives (phase, percent, message) milestones. Phase is "fetch" or "process".
type ProgressFunc func(phase string, percent int, message string)

// * SnapshotTimeLayout renders snapshot timestamps, always UTC
const SnapshotTimeLayout = "2006-01-02 15:04:05"

const (
	PhaseFetch   = "fetch"
	PhaseProcess = "process"
)

// * Target is one repository on the watch list
type Target struct {
	TeamKey string `json:"team_key"`
	RepoURL string `json:"repo_url"`
}

// * RepoAnalysis is the one-page overview of a team's repository. It looks at
// * the first commits page only, so TotalCommits is capped by that page size.
type RepoAnalysis struct {
	TeamName       string `json:"team_name"`
	RepoURL        string `json:"repo_url"`
	Track          string `json:"track"`
	Members        string `json:"members"`
	IsPrivate      bool   `json:"is_private"`
	DefaultBranch  string `json:"default_branch"`
	TotalCommits   int    `json:"total_commits"`
	LastCommit     string `json:"last_commit"`
	RecentMessages string `json:"recent_messages"`
	ReadmePresent  bool   `json:"readme_present"`
	TopLanguages   string `json:"top_languages"`
}
