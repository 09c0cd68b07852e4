package feed

import (
	"context"
	"errors"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/storage"
)

// Chain tries its sources in order and returns the first success.
type Chain struct {
	sources []NewsSource
}

func NewChain(sources ...NewsSource) *Chain {
	return &Chain{sources: sources}
}

func (c *Chain) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	var errs []error
	for i, src := range c.sources {
		articles, err := src.Fetch(ctx, query, limit)
		if err == nil {
			if i > 0 {
				debuglog.Warnf("served %q from fallback source %d", query, i)
			}
			return articles, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no sources configured"))
	}
	return nil, &FetchError{Source: "chain", Query: query, Err: errors.Join(errs...)}
}
