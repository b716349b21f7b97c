package github

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

type fakeCommit struct {
	SHA     string
	Message string
	Author  string
	Date    string
}

type fakeEntry struct {
	Path string
	Type string
	SHA  string
}

// fakeGitHub serves just enough of the REST API for one repository.
type fakeGitHub struct {
	mu sync.Mutex

	owner, repo   string
	defaultBranch string
	private       bool
	languages     map[string]int
	hasReadme     bool
	commits       []fakeCommit // newest first
	trees         map[string][]fakeEntry
	blobs         map[string]string
	failBlobs     map[string]int

	blobHits     map[string]int
	commitPages  []int
	rateRemain   int
	metaStatus   int
	commitStatus int
}

func newFakeGitHub() *fakeGitHub {
	return &fakeGitHub{
		owner:         "acme",
		repo:          "widgets",
		defaultBranch: "main",
		languages:     map[string]int{"Python": 300, "JavaScript": 100},
		hasReadme:     true,
		trees:         map[string][]fakeEntry{},
		blobs:         map[string]string{},
		failBlobs:     map[string]int{},
		blobHits:      map[string]int{},
		rateRemain:    4999,
	}
}

func (f *fakeGitHub) start(t *testing.T) *httptest.Server {
	t.Helper()
	base := fmt.Sprintf("/repos/%s/%s", f.owner, f.repo)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base, f.handleMeta)
	mux.HandleFunc("GET "+base+"/languages", f.handleLanguages)
	mux.HandleFunc("GET "+base+"/readme", f.handleReadme)
	mux.HandleFunc("GET "+base+"/commits", f.handleCommits)
	mux.HandleFunc("GET "+base+"/git/trees/{sha}", f.handleTree)
	mux.HandleFunc("GET "+base+"/git/blobs/{sha}", f.handleBlob)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.rateRemain--
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(f.rateRemain))
		w.Header().Set("X-RateLimit-Limit", "5000")
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeGitHub) client(srv *httptest.Server) *Client {
	return NewClient("test-token", WithBaseURL(srv.URL))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (f *fakeGitHub) handleMeta(w http.ResponseWriter, r *http.Request) {
	if f.metaStatus != 0 {
		w.WriteHeader(f.metaStatus)
		return
	}
	writeJSON(w, map[string]any{
		"full_name":      f.owner + "/" + f.repo,
		"default_branch": f.defaultBranch,
		"private":        f.private,
	})
}

func (f *fakeGitHub) handleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, f.languages)
}

func (f *fakeGitHub) handleReadme(w http.ResponseWriter, r *http.Request) {
	if !f.hasReadme {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"name": "README.md"})
}

func (f *fakeGitHub) handleCommits(w http.ResponseWriter, r *http.Request) {
	if f.commitStatus != 0 {
		w.WriteHeader(f.commitStatus)
		return
	}
	if r.URL.Query().Get("sha") != f.defaultBranch {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 30
	}

	f.mu.Lock()
	if perPage > 1 {
		f.commitPages = append(f.commitPages, page)
	}
	f.mu.Unlock()

	if perPage == 1 && len(f.commits) > 1 {
		w.Header().Set("Link", fmt.Sprintf(
			`<https://api.github.com/repositories/1/commits?per_page=1&sha=%s&page=2>; rel="next", <https://api.github.com/repositories/1/commits?per_page=1&sha=%s&page=%d>; rel="last"`,
			f.defaultBranch, f.defaultBranch, len(f.commits)))
	}

	start := min((page-1)*perPage, len(f.commits))
	end := min(start+perPage, len(f.commits))

	out := make([]map[string]any, 0, end-start)
	for _, c := range f.commits[start:end] {
		out = append(out, map[string]any{
			"sha": c.SHA,
			"commit": map[string]any{
				"message":   c.Message,
				"author":    map[string]any{"name": c.Author, "date": c.Date},
				"committer": map[string]any{"name": "GitHub", "date": c.Date},
			},
		})
	}
	writeJSON(w, out)
}

func (f *fakeGitHub) handleTree(w http.ResponseWriter, r *http.Request) {
	entries, ok := f.trees[r.PathValue("sha")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	tree := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		tree = append(tree, map[string]any{"path": e.Path, "type": e.Type, "sha": e.SHA})
	}
	writeJSON(w, map[string]any{"sha": "tree-" + r.PathValue("sha"), "tree": tree, "truncated": false})
}

func (f *fakeGitHub) handleBlob(w http.ResponseWriter, r *http.Request) {
	sha := r.PathValue("sha")

	f.mu.Lock()
	f.blobHits[sha]++
	if f.failBlobs[sha] > 0 {
		f.failBlobs[sha]--
		f.mu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	f.mu.Unlock()

	content, ok := f.blobs[sha]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"sha":      sha,
		"encoding": "base64",
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	})
}

func (f *fakeGitHub) hits(sha string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.blobHits[sha]
}

// seedHistory fills n commits, newest first, all pointing at the same small tree.
func (f *fakeGitHub) seedHistory(n int) {
	f.commits = make([]fakeCommit, 0, n)
	for i := n; i >= 1; i-- {
		sha := fmt.Sprintf("%040d", i)
		f.commits = append(f.commits, fakeCommit{
			SHA:     sha,
			Message: fmt.Sprintf("commit %d\n\nbody", i),
			Author:  "dev",
			Date:    fmt.Sprintf("2024-01-01T00:%02d:%02dZ", (i/60)%60, i%60),
		})
		f.trees[sha] = []fakeEntry{
			{Path: "main.go", Type: "blob", SHA: "blob-main"},
			{Path: "docs", Type: "tree", SHA: "tree-docs"},
			{Path: "docs/README.md", Type: "blob", SHA: "blob-readme"},
			{Path: "assets/logo.png", Type: "blob", SHA: "blob-logo"},
		}
	}
	f.blobs["blob-main"] = "package main\n\nfunc main() {}\n"
	f.blobs["blob-readme"] = "# widgets\nhello"
	f.blobs["blob-logo"] = "\x89PNG\x00\x00"
}
