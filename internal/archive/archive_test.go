package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/cyberx/internal/feed"
	"github.com/pders01/cyberx/internal/storage"
)

func seed() []storage.Article {
	return []storage.Article{
		{
			Title:       "Ransomware gang hits hospital",
			Description: "Emergency services diverted",
			URL:         "https://example.com/1",
			Source:      "Wire",
			PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:       "Weekly digest",
			Description: "Roundup of the week",
			Content:     "Several ransomware incidents were reported",
			URL:         "https://example.com/2",
			Source:      "Desk",
			PublishedAt: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:   "Phishing kit sold on forums",
			Summary: "Credential theft made easy",
			URL:     "https://example.com/3",
		},
		{Title: "No URL, never indexed"},
	}
}

func openMem(t *testing.T) *Archive {
	t.Helper()
	a, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArchiveIndexesAndSearches(t *testing.T) {
	a := openMem(t)
	a.OnArticles("seed", seed())

	n, err := a.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := a.Fetch(context.Background(), "ransomware", 10)
	require.NoError(t, err)
	require.Len(t, res, 2)
	// title hit outranks content hit
	assert.Equal(t, "https://example.com/1", res[0].URL)
	assert.Equal(t, "Wire", res[0].Source)
	assert.True(t, res[0].PublishedAt.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "https://example.com/2", res[1].URL)
	assert.Equal(t, "Several ransomware incidents were reported", res[1].Content)
}

func TestArchivePrefixMatch(t *testing.T) {
	a := openMem(t)
	a.OnArticles("seed", seed())

	res, err := a.Fetch(context.Background(), "phish", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Credential theft made easy", res[0].Summary)
}

func TestArchiveLimit(t *testing.T) {
	a := openMem(t)
	a.OnArticles("seed", seed())

	res, err := a.Fetch(context.Background(), "ransomware", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestArchiveReindexSameURL(t *testing.T) {
	a := openMem(t)
	a.OnArticles("seed", seed())
	a.OnArticles("again", []storage.Article{{Title: "Updated headline", URL: "https://example.com/1"}})

	n, err := a.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	res, err := a.Fetch(context.Background(), "updated", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Updated headline", res[0].Title)
}

func TestArchiveNoMatches(t *testing.T) {
	a := openMem(t)
	a.OnArticles("seed", seed())

	for _, q := range []string{"kubernetes", "", "a"} {
		_, err := a.Fetch(context.Background(), q, 10)
		var fe *feed.FetchError
		require.True(t, errors.As(err, &fe), "query %q", q)
		assert.ErrorIs(t, err, ErrNoMatches)
	}
}

func TestArchiveCancelledContext(t *testing.T) {
	a := openMem(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Fetch(ctx, "ransomware", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestArchiveOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.bleve")

	a, err := Open(path)
	require.NoError(t, err)
	a.OnArticles("seed", seed())
	require.NoError(t, a.Close())

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	n, err := reopened.DocCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"zero", "day", "cve", "2024"}, tokenize("Zero-Day CVE 2024"))
	assert.Empty(t, tokenize("a b c"))
	assert.Empty(t, tokenize(""))
}
