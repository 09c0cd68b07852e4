package feed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/storage"
)

// CachedSource memoises successful results of another source for a TTL
// and coalesces concurrent identical requests into one upstream call.
// Failures are never cached. A non-positive TTL disables caching but keeps
// the coalescing.
//
// When upstream answers with a Retry-After, every fetch fails fast with
// ErrBackingOff until that time has passed.
type CachedSource struct {
	next  NewsSource
	ttl   time.Duration
	cache *cache.Cache
	group singleflight.Group
	now   func() time.Time

	mu        sync.Mutex
	holdUntil time.Time
	holdErr   error
}

// ErrBackingOff is returned while the upstream's Retry-After is pending.
var ErrBackingOff = errors.New("backing off")

func NewCachedSource(next NewsSource, ttl time.Duration) *CachedSource {
	cleanup := 2 * ttl
	if ttl <= 0 {
		cleanup = 0
	}
	return &CachedSource{
		next:  next,
		ttl:   ttl,
		cache: cache.New(ttl, cleanup),
		now:   time.Now,
	}
}

func cacheKey(query string, limit int) string {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return q + "|" + strconv.Itoa(limit)
}

func (c *CachedSource) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	key := cacheKey(query, limit)

	if c.ttl > 0 && !cacheBypassed(ctx) {
		if v, ok := c.cache.Get(key); ok {
			debuglog.Debugf("source cache hit for %q", key)
			return storage.Clone(v.([]storage.Article)), nil
		}
	}

	if err := c.held(query); err != nil {
		return nil, err
	}

	ch := c.group.DoChan(key, func() (interface{}, error) {
		articles, err := c.next.Fetch(ctx, query, limit)
		if err != nil {
			c.hold(err)
			return nil, err
		}
		if c.ttl > 0 {
			c.cache.SetDefault(key, storage.Clone(articles))
		}
		return articles, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return storage.Clone(res.Val.([]storage.Article)), nil
	}
}

// held returns ErrBackingOff, wrapping the error that started the
// back-off, while a Retry-After is pending.
func (c *CachedSource) held(query string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holdUntil.IsZero() {
		return nil
	}
	wait := c.holdUntil.Sub(c.now())
	if wait <= 0 {
		c.holdUntil, c.holdErr = time.Time{}, nil
		return nil
	}
	return &FetchError{
		Source: "cache",
		Query:  query,
		Err:    fmt.Errorf("%w for %s: %w", ErrBackingOff, wait.Round(time.Second), c.holdErr),
	}
}

func (c *CachedSource) hold(err error) {
	var se *StatusError
	if !errors.As(err, &se) || se.RetryAfter <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.holdUntil = c.now().Add(se.RetryAfter)
	c.holdErr = err
	debuglog.Warnf("upstream asked to retry after %s (HTTP %d)", se.RetryAfter, se.Code)
}
