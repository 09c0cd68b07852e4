package feed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/cyberx/internal/storage"
)

type memIndex struct {
	articles []storage.Article
}

func (m *memIndex) OnArticles(query string, articles []storage.Article) {
	m.articles = append(m.articles, articles...)
}

func (m *memIndex) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	return storage.Clone(m.articles), nil
}

func TestRoute(t *testing.T) {
	saved := []storage.Article{{Title: "indexed", URL: "https://example.com/indexed"}}
	fresh := []storage.Article{{Title: "fresh", URL: "https://example.com/fresh"}}

	tests := []struct {
		name          string
		remote        NewsSource
		noIndex       bool
		fallback      bool
		wantDefault   []storage.Article
		wantSearch    []storage.Article
		wantSearchErr bool
	}{
		{
			name:          "remote down without index",
			remote:        staticSource(nil, errRemote),
			noIndex:       true,
			fallback:      true,
			wantSearchErr: true,
		},
		{
			name:       "remote down with fallback",
			remote:     staticSource(nil, errRemote),
			fallback:   true,
			wantSearch: saved,
		},
		{
			name:          "remote down without fallback",
			remote:        staticSource(nil, errRemote),
			wantSearchErr: true,
		},
		{
			name:        "remote up",
			remote:      staticSource(fresh, nil),
			fallback:    true,
			wantDefault: fresh,
			wantSearch:  fresh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := &memIndex{articles: storage.Clone(saved)}
			var index Index = idx
			if tt.noIndex {
				index = nil
			}
			r := Route(tt.remote, index, tt.fallback)

			// the default feed never reads from the index
			got, err := r.Default.Fetch(context.Background(), "q", 5)
			if tt.wantDefault == nil {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantDefault, got)
			}

			got, err = r.Search.Fetch(context.Background(), "q", 5)
			if tt.wantSearchErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSearch, got)
			}
		})
	}
}

func TestRoute_DefaultFeedIsIndexed(t *testing.T) {
	idx := &memIndex{}
	fresh := []storage.Article{{Title: "fresh", URL: "https://example.com/fresh"}}

	r := Route(staticSource(fresh, nil), idx, true)
	_, err := r.Default.Fetch(context.Background(), "cybersecurity", 5)
	require.NoError(t, err)
	assert.Equal(t, fresh, idx.articles)
}
