package report

import (
	"strconv"

	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
)

// OverviewHeaders is the column order of the per-team overview sheet.
var OverviewHeaders = []string{
	"Team Name",
	"GitHub Repo URL",
	"Track",
	"Members",
	"Public/Private",
	"Default Branch",
	"Total Commits",
	"Last Commit",
	"Recent Messages",
	"README Present",
	"Top Languages",
}

type OverviewRow struct {
	TeamName       string `json:"team_name"`
	RepoURL        string `json:"repo_url"`
	Track          string `json:"track"`
	Members        string `json:"members"`
	Visibility     string `json:"visibility"`
	DefaultBranch  string `json:"default_branch"`
	TotalCommits   int    `json:"total_commits"`
	LastCommit     string `json:"last_commit"`
	RecentMessages string `json:"recent_messages"`
	ReadmePresent  string `json:"readme_present"`
	TopLanguages   string `json:"top_languages"`
}

// Values returns the row in OverviewHeaders order.
func (r OverviewRow) Values() []string {
	return []string{
		r.TeamName,
		r.RepoURL,
		r.Track,
		r.Members,
		r.Visibility,
		r.DefaultBranch,
		strconv.Itoa(r.TotalCommits),
		r.LastCommit,
		r.RecentMessages,
		r.ReadmePresent,
		r.TopLanguages,
	}
}

// Overview renders an analysis for the overview sheet.
func Overview(a *models.RepoAnalysis) OverviewRow {
	visibility := "Public"
	if a.IsPrivate {
		visibility = "Private"
	}
	readme := "No"
	if a.ReadmePresent {
		readme = "Yes"
	}

	return OverviewRow{
		TeamName:       a.TeamName,
		RepoURL:        a.RepoURL,
		Track:          a.Track,
		Members:        a.Members,
		Visibility:     visibility,
		DefaultBranch:  a.DefaultBranch,
		TotalCommits:   a.TotalCommits,
		LastCommit:     a.LastCommit,
		RecentMessages: a.RecentMessages,
		ReadmePresent:  readme,
		TopLanguages:   a.TopLanguages,
	}
}
