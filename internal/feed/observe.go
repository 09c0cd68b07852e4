package feed

import (
	"context"

	"github.com/pders01/cyberx/internal/storage"
)

// UpdateListener is told about every successful fetch.
type UpdateListener interface {
	OnArticles(query string, articles []storage.Article)
}

type observed struct {
	src       NewsSource
	listeners []UpdateListener
}

// Observe wraps src so each non-empty successful result is forwarded to the
// listeners before it is returned.
func Observe(src NewsSource, listeners ...UpdateListener) NewsSource {
	return &observed{src: src, listeners: listeners}
}

func (o *observed) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	articles, err := o.src.Fetch(ctx, query, limit)
	if err != nil || len(articles) == 0 {
		return articles, err
	}
	for _, l := range o.listeners {
		l.OnArticles(query, storage.Clone(articles))
	}
	return articles, nil
}
