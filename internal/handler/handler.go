package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/KOFI-GYIMAH/hacktrack/internal/github"
	"github.com/KOFI-GYIMAH/hacktrack/internal/models"
	"github.com/KOFI-GYIMAH/hacktrack/internal/queue"
	"github.com/KOFI-GYIMAH/hacktrack/internal/report"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/logger"
	"github.com/gorilla/mux"
)

// * RepositoryService is the read side of the store plus quota reporting
type RepositoryService interface {
	ListAllRepositories(ctx context.Context) ([]*models.Repository, error)
	GetRepository(ctx context.Context, owner, name string) (*models.Repository, error)
	GetCommits(ctx context.Context, owner, name string) ([]models.Commit, error)
	GetRows(ctx context.Context, owner, name string) ([]report.Row, error)
	GetTopAuthors(ctx context.Context, owner, name string, limit int) ([]models.AuthorCommitCount, error)
	ResetRepository(ctx context.Context, owner, name string) error
	RateLimit() models.RateLimitInfo
	CheckRateLimit(ctx context.Context) models.RateLimitInfo
	Overview(ctx context.Context, target models.Target, track, members string) (*report.OverviewRow, error)
}

// * SyncRunner runs a sync inline; satisfied by *worker.SyncWorker
type SyncRunner interface {
	Sync(ctx context.Context, req models.SyncRequest) (*models.RepoSnapshot, error)
}

// * SyncPublisher enqueues a sync; satisfied by *queue.RabbitMQ
type SyncPublisher interface {
	PublishSyncRequest(ctx context.Context, req models.SyncRequest) error
}

type RepositoryHandler struct {
	service   RepositoryService
	runner    SyncRunner
	publisher SyncPublisher
}

// * NewRepositoryHandler wires the API. With a nil publisher POST /repositories
// * syncs inline instead of enqueueing.
func NewRepositoryHandler(service RepositoryService, runner SyncRunner, publisher SyncPublisher) *RepositoryHandler {
	return &RepositoryHandler{
		service:   service,
		runner:    runner,
		publisher: publisher,
	}
}

func (h *RepositoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/repositories", h.listRepositories).Methods("GET")
	r.HandleFunc("/repositories", h.AddRepository).Methods("POST")
	r.HandleFunc("/repositories/{owner}/{name}", h.getRepository).Methods("GET")
	r.HandleFunc("/repositories/{owner}/{name}/commits", h.getCommits).Methods("GET")
	r.HandleFunc("/repositories/{owner}/{name}/rows", h.getRows).Methods("GET")
	r.HandleFunc("/repositories/{owner}/{name}/top-authors", h.getTopCommitAuthors).Methods("GET")
	r.HandleFunc("/repositories/{owner}/{name}/reset-collection", h.resetCollection).Methods("POST")
	r.HandleFunc("/ratelimit", h.getRateLimit).Methods("GET")
	r.HandleFunc("/overview", h.getOverview).Methods("GET")
}

func writeSuccess(w http.ResponseWriter, status int, data any, message ...string) {
	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func invalidRequest(detail string, cause error) error {
	return errors.New(errors.RefInvalidRequest, "Invalid request", detail, cause, errors.LevelWarning)
}

func queryInt(r *http.Request, key string, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 1 || n > max {
		return def
	}
	return n
}

// listRepositories godoc
// @Summary List Repositories
// @Description List every tracked repository with its latest snapshot summary
// @Tags Repository
// @Produce json
// @Success 200 {array} models.Repository
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /repositories [get]
func (h *RepositoryHandler) listRepositories(w http.ResponseWriter, r *http.Request) {
	repos, err := h.service.ListAllRepositories(r.Context())
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}
	if repos == nil {
		repos = []*models.Repository{}
	}

	writeSuccess(w, http.StatusOK, repos, "Successfully fetched repositories")
}

// getRepository godoc
// @Summary Get Repository
// @Description Fetch the stored snapshot summary of a repository
// @Tags Repository
// @Produce json
// @Param owner path string true "Repository Owner"
// @Param name path string true "Repository Name"
// @Success 200 {object} models.Repository
// @Failure 404 {object} errors.HTTPErrorResponse
// @Router /repositories/{owner}/{name} [get]
func (h *RepositoryHandler) getRepository(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, name := vars["owner"], vars["name"]

	repository, err := h.service.GetRepository(r.Context(), owner, name)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	logger.Info("Fetched repository %s/%s", owner, name)
	writeSuccess(w, http.StatusOK, repository, "Successfully fetched repository")
}

// @Summary Sync a repository
// @Description Queues a snapshot of a GitHub repository, or takes it inline when no queue is configured
// @Tags Repository
// @Accept json
// @Produce json
// @Param repository body AddRepositoryRequest true "Repository to sync"
// @Success 201 {object} SyncResult
// @Success 202 {object} models.SyncRequest
// @Failure 400 {object} errors.HTTPErrorResponse
// @Failure 502 {object} errors.HTTPErrorResponse
// @Router /repositories [post]
func (h *RepositoryHandler) AddRepository(w http.ResponseWriter, r *http.Request) {
	var req AddRepositoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteHTTPError(w, invalidRequest("Body must be JSON with a repo_url", err))
		return
	}

	owner, name, err := github.ParseRepoURL(req.RepoURL)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	target := models.Target{TeamKey: strings.TrimSpace(req.TeamKey), RepoURL: strings.TrimSpace(req.RepoURL)}
	if target.TeamKey == "" {
		target.TeamKey = owner + "/" + name
	}
	syncReq := queue.NewSyncRequest(target)

	if h.publisher != nil {
		if err := h.publisher.PublishSyncRequest(r.Context(), syncReq); err != nil {
			errors.WriteHTTPError(w, errors.New(
				errors.RefQueueUnavailable,
				"Failed to queue sync request",
				"The sync queue rejected the request",
				err,
				errors.LevelError,
			))
			return
		}
		logger.Info("Queued sync %s for %s/%s", syncReq.ID, owner, name)
		writeSuccess(w, http.StatusAccepted, syncReq, "Sync queued")
		return
	}

	snap, err := h.runner.Sync(r.Context(), syncReq)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, SyncResult{
		Target:     target,
		Owner:      snap.Owner,
		Repo:       snap.Repo,
		NewCommits: len(snap.Commits),
	}, "Repository synced")
}

// getCommits godoc
// @Summary Get Commits
// @Description List stored commits for a repository, oldest first, paginated
// @Tags Commits
// @Produce json
// @Param owner path string true "Repository Owner"
// @Param name path string true "Repository Name"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Number of items per page" default(30)
// @Success 200 {array} models.Commit
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /repositories/{owner}/{name}/commits [get]
func (h *RepositoryHandler) getCommits(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, name := vars["owner"], vars["name"]

	page := queryInt(r, "page", 1, 1<<20)
	limit := queryInt(r, "limit", 30, 100)

	commits, err := h.service.GetCommits(r.Context(), owner, name)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	start := min((page-1)*limit, len(commits))
	end := min(start+limit, len(commits))

	logger.Info("Fetched %d commits for %s/%s", end-start, owner, name)
	writeSuccess(w, http.StatusOK, commits[start:end], "Successfully fetched commits")
}

// getRows godoc
// @Summary Get Sheet Rows
// @Description Stored commit history rendered in sheet column order
// @Tags Commits
// @Produce json
// @Param owner path string true "Repository Owner"
// @Param name path string true "Repository Name"
// @Success 200 {array} report.Row
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /repositories/{owner}/{name}/rows [get]
func (h *RepositoryHandler) getRows(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, name := vars["owner"], vars["name"]

	rows, err := h.service.GetRows(r.Context(), owner, name)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, rows, strings.Join(report.Headers, ", "))
}

// getTopCommitAuthors godoc
// @Summary Get Top Authors
// @Description Fetch top commit authors by number of stored commits
// @Tags Analytics
// @Produce json
// @Param owner path string true "Repository Owner"
// @Param name path string true "Repository Name"
// @Param limit query int false "Max authors to return" default(10)
// @Success 200 {array} models.AuthorCommitCount
// @Failure 500 {object} errors.HTTPErrorResponse
// @Router /repositories/{owner}/{name}/top-authors [get]
func (h *RepositoryHandler) getTopCommitAuthors(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, name := vars["owner"], vars["name"]

	limit := queryInt(r, "limit", 10, 100)

	authors, err := h.service.GetTopAuthors(r.Context(), owner, name, limit)
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	if authors == nil {
		authors = []models.AuthorCommitCount{}
	}

	logger.Info("Fetched top authors for %s/%s", owner, name)
	writeSuccess(w, http.StatusOK, authors, "Successfully fetched top authors")
}

// resetCollection godoc
// @Summary Reset Repository Data
// @Description Deletes stored commits so the next sync collects the full history again
// @Tags Repository
// @Produce json
// @Param owner path string true "Repository Owner"
// @Param name path string true "Repository Name"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.HTTPErrorResponse
// @Router /repositories/{owner}/{name}/reset-collection [post]
func (h *RepositoryHandler) resetCollection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	owner, name := vars["owner"], vars["name"]

	if err := h.service.ResetRepository(r.Context(), owner, name); err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]string{
		"message": "Repository data reset successfully",
	}, "Repository data reset successfully")
}

// getRateLimit godoc
// @Summary Get Rate Limit
// @Description Last observed GitHub core quota; refresh=true asks GitHub directly
// @Tags Analytics
// @Produce json
// @Param refresh query bool false "Query the rate_limit endpoint"
// @Success 200 {object} RateLimitResponse
// @Router /ratelimit [get]
func (h *RepositoryHandler) getRateLimit(w http.ResponseWriter, r *http.Request) {
	var info models.RateLimitInfo
	if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		info = h.service.CheckRateLimit(r.Context())
	} else {
		info = h.service.RateLimit()
	}

	writeSuccess(w, http.StatusOK, RateLimitResponse{Remaining: info.Remaining, Limit: info.Limit})
}

// getOverview godoc
// @Summary Repository Overview
// @Description Live one-page overview of a team's repository; nothing is stored
// @Tags Analytics
// @Produce json
// @Param repo_url query string true "GitHub repository URL"
// @Param team query string false "Team name"
// @Param track query string false "Track"
// @Param members query string false "Members"
// @Success 200 {object} report.OverviewRow
// @Failure 400 {object} errors.HTTPErrorResponse
// @Failure 502 {object} errors.HTTPErrorResponse
// @Router /overview [get]
func (h *RepositoryHandler) getOverview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := models.Target{
		TeamKey: strings.TrimSpace(q.Get("team")),
		RepoURL: strings.TrimSpace(q.Get("repo_url")),
	}
	if target.RepoURL == "" {
		errors.WriteHTTPError(w, invalidRequest("repo_url is required", nil))
		return
	}

	row, err := h.service.Overview(r.Context(), target, strings.TrimSpace(q.Get("track")), strings.TrimSpace(q.Get("members")))
	if err != nil {
		errors.WriteHTTPError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, row, strings.Join(report.OverviewHeaders, ", "))
}
