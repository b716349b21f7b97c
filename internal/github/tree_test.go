package github

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KOFI-GYIMAH/hacktrack/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeCounter_CountCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("counts blobs and skips binary lines", func(t *testing.T) {
		fake := newFakeGitHub()
		fake.seedHistory(1)
		counter := NewTreeCounter(fake.client(fake.start(t)), cache.NewMemory())

		totals, err := counter.CountCommit(ctx, "acme", "widgets", shaOf(1))
		require.NoError(t, err)
		assert.Equal(t, 3, totals.Files, "tree entries are not files")
		assert.Equal(t, 5, totals.Lines)
		assert.Zero(t, fake.hits("blob-logo"), "binary extensions are never fetched")
	})

	t.Run("each blob fetched once across commits", func(t *testing.T) {
		fake := newFakeGitHub()
		fake.seedHistory(4)
		counter := NewTreeCounter(fake.client(fake.start(t)), cache.NewMemory())

		for i := 1; i <= 4; i++ {
			totals, err := counter.CountCommit(ctx, "acme", "widgets", shaOf(i))
			require.NoError(t, err)
			assert.Equal(t, 5, totals.Lines)
		}
		assert.Equal(t, 1, fake.hits("blob-main"))
		assert.Equal(t, 1, fake.hits("blob-readme"))
	})

	t.Run("missing tree yields zero totals", func(t *testing.T) {
		fake := newFakeGitHub()
		counter := NewTreeCounter(fake.client(fake.start(t)), cache.NewMemory())

		totals, err := counter.CountCommit(ctx, "acme", "widgets", "deadbeef")
		require.NoError(t, err)
		assert.Equal(t, TreeTotals{}, totals)
	})

	t.Run("failed blob counts zero and is retried", func(t *testing.T) {
		fake := newFakeGitHub()
		fake.seedHistory(2)
		fake.failBlobs["blob-main"] = 1
		counter := NewTreeCounter(fake.client(fake.start(t)), cache.NewMemory())

		first, err := counter.CountCommit(ctx, "acme", "widgets", shaOf(1))
		require.NoError(t, err)
		assert.Equal(t, 2, first.Lines)
		assert.Equal(t, 3, first.Files)

		second, err := counter.CountCommit(ctx, "acme", "widgets", shaOf(2))
		require.NoError(t, err)
		assert.Equal(t, 5, second.Lines)
		assert.Equal(t, 2, fake.hits("blob-main"))
	})

	t.Run("binary content under a text extension counts zero and is cached", func(t *testing.T) {
		fake := newFakeGitHub()
		fake.trees["c1"] = []fakeEntry{{Path: "data.txt", Type: "blob", SHA: "blob-nul"}}
		fake.trees["c2"] = fake.trees["c1"]
		fake.blobs["blob-nul"] = "a\x00b\nc\n"
		counter := NewTreeCounter(fake.client(fake.start(t)), cache.NewMemory())

		for _, sha := range []string{"c1", "c2"} {
			totals, err := counter.CountCommit(ctx, "acme", "widgets", sha)
			require.NoError(t, err)
			assert.Equal(t, TreeTotals{Files: 1, Lines: 0}, totals)
		}
		assert.Equal(t, 1, fake.hits("blob-nul"))
	})

	t.Run("tree server error propagates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		counter := NewTreeCounter(NewClient("", WithBaseURL(server.URL)), cache.NewMemory())
		_, err := counter.CountCommit(ctx, "acme", "widgets", "abc")
		require.Error(t, err)
	})
}

func TestClient_GetBlobContent_WrappedBase64(t *testing.T) {
	content := strings.Repeat("line of text\n", 20)
	encoded := base64.StdEncoding.EncodeToString([]byte(content))

	var wrapped strings.Builder
	for i := 0; i < len(encoded); i += 60 {
		wrapped.WriteString(encoded[i:min(i+60, len(encoded))])
		wrapped.WriteString("\n")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"encoding": "base64", "content": wrapped.String()})
	}))
	defer server.Close()

	client := NewClient("", WithBaseURL(server.URL))
	data, found, err := client.GetBlobContent(context.Background(), "acme", "widgets", "abc")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, content, string(data))
	assert.Equal(t, 20, CountLines(data))
}
