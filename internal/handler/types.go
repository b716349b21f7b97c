package handler

import "github.com/KOFI-GYIMAH/hacktrack/internal/models"

type AddRepositoryRequest struct {
	TeamKey string `json:"team_key" example:"team-alpha"`
	RepoURL string `json:"repo_url" example:"https://github.com/acme/widgets"`
}

type APIResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// * SyncResult summarizes a synchronous sync
type SyncResult struct {
	Target     models.Target `json:"target"`
	Owner      string        `json:"owner"`
	Repo       string        `json:"repo"`
	NewCommits int           `json:"new_commits"`
}

type RateLimitResponse struct {
	Remaining *int `json:"remaining"`
	Limit     *int `json:"limit"`
}
