// Package feed fetches cybersecurity news from remote search endpoints and
// composes sources into the pipeline the search orchestrator consumes.
package feed

import (
	"context"
	"fmt"

	"github.com/pders01/cyberx/internal/storage"
)

// NewsSource returns up to limit articles matching query.
type NewsSource interface {
	Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error)
}

// Func adapts a plain function to NewsSource.
type Func func(ctx context.Context, query string, limit int) ([]storage.Article, error)

func (f Func) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	return f(ctx, query, limit)
}

// FetchError reports that a source could not produce results: the remote
// was unreachable, answered with a bad status, or sent an unparsable body.
type FetchError struct {
	Source string
	Query  string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %q from %s: %v", e.Query, e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type bypassKey struct{}

// WithoutCache marks ctx so caching sources go to their upstream even when
// they hold a fresh entry. Used for explicit refreshes.
func WithoutCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	v, _ := ctx.Value(bypassKey{}).(bool)
	return v
}
