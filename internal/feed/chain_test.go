package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/cyberx/internal/storage"
)

var errRemote = errors.New("remote down")

func staticSource(articles []storage.Article, err error) Func {
	return func(ctx context.Context, query string, limit int) ([]storage.Article, error) {
		return articles, err
	}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	primary := []storage.Article{{Title: "primary"}}
	fallback := []storage.Article{{Title: "fallback"}}

	got, err := NewChain(staticSource(primary, nil), staticSource(fallback, nil)).
		Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, primary, got)

	got, err = NewChain(staticSource(nil, errRemote), staticSource(fallback, nil)).
		Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)
}

func TestChain_EmptySuccessDoesNotFallThrough(t *testing.T) {
	got, err := NewChain(staticSource([]storage.Article{}, nil), staticSource([]storage.Article{{Title: "x"}}, nil)).
		Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestChain_AllFail(t *testing.T) {
	errArchive := errors.New("index closed")
	_, err := NewChain(staticSource(nil, errRemote), staticSource(nil, errArchive)).
		Fetch(context.Background(), "q", 5)

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "q", fe.Query)
	assert.ErrorIs(t, err, errRemote)
	assert.ErrorIs(t, err, errArchive)
}

func TestChain_NoSources(t *testing.T) {
	_, err := NewChain().Fetch(context.Background(), "q", 5)
	assert.Error(t, err)
}

type recordingListener struct {
	queries []string
	counts  []int
}

func (r *recordingListener) OnArticles(query string, articles []storage.Article) {
	r.queries = append(r.queries, query)
	r.counts = append(r.counts, len(articles))
}

func TestObserve(t *testing.T) {
	listener := &recordingListener{}
	articles := []storage.Article{{Title: "a"}, {Title: "b"}}

	got, err := Observe(staticSource(articles, nil), listener).Fetch(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Equal(t, articles, got)

	_, _ = Observe(staticSource(nil, errRemote), listener).Fetch(context.Background(), "bad", 5)
	_, _ = Observe(staticSource([]storage.Article{}, nil), listener).Fetch(context.Background(), "empty", 5)

	assert.Equal(t, []string{"q"}, listener.queries)
	assert.Equal(t, []int{2}, listener.counts)
}
