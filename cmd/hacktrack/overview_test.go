package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/KOFI-GYIMAH/hacktrack/internal/report"
	"github.com/KOFI-GYIMAH/hacktrack/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overviewServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/acme/widgets", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"full_name":"acme/widgets","default_branch":"main","private":false}`))
	})
	mux.HandleFunc("GET /repos/acme/widgets/commits", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"sha":"b","commit":{"message":"second","committer":{"name":"GitHub","date":"2024-05-02T10:20:30Z"}}},
			{"sha":"a","commit":{"message":"first","committer":{"name":"GitHub","date":"2024-05-01T08:00:00Z"}}}
		]`))
	})
	mux.HandleFunc("GET /repos/acme/widgets/languages", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Go":100}`))
	})
	mux.HandleFunc("GET /repos/acme/widgets/readme", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func useServer(t *testing.T, url string) {
	t.Helper()
	oldURL, oldTimeout, oldToken, oldRedis := apiURL, timeout, token, redisURL
	apiURL, timeout, token, redisURL = url, 5*time.Second, "", ""
	t.Cleanup(func() {
		apiURL, timeout, token, redisURL = oldURL, oldTimeout, oldToken, oldRedis
	})
}

func captureStdout(t *testing.T, fn func()) []byte {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)

	stdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = stdout }()

	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestOverviewCommand(t *testing.T) {
	useServer(t, overviewServer(t).URL)
	overviewJSON, track, members = true, "AI", "Ada"
	t.Cleanup(func() { overviewJSON, track, members = false, "", "" })
	overviewCmd.SetContext(context.Background())
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)

	var runErr error
	out := captureStdout(t, func() {
		runErr = overviewCmd.RunE(overviewCmd, []string{"alpha=https://github.com/acme/widgets"})
	})
	require.NoError(t, runErr)

	var rows []report.OverviewRow
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, report.OverviewRow{
		TeamName:       "alpha",
		RepoURL:        "https://github.com/acme/widgets",
		Track:          "AI",
		Members:        "Ada",
		Visibility:     "Public",
		DefaultBranch:  "main",
		TotalCommits:   2,
		LastCommit:     "2024-05-02 10:20",
		RecentMessages: "second | first",
		ReadmePresent:  "No",
		TopLanguages:   "Go (100%)",
	}, rows[0])
}

func TestOverviewCommand_InvalidTarget(t *testing.T) {
	err := overviewCmd.RunE(overviewCmd, []string{"not a repo"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidURL))
}
