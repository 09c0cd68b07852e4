// Package offline keeps the last known-good default feed and the recent
// search history across sessions.
package offline

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/storage"
)

const (
	feedKey     = "feed/default"
	feedVersion = 1
)

type envelope struct {
	Version  int               `json:"version"`
	SavedAt  time.Time         `json:"saved_at"`
	Articles []storage.Article `json:"articles"`
}

// Cache stores a single ordered article list. Writes replace it wholesale.
type Cache struct {
	kv  storage.KV
	now func() time.Time

	mu      sync.Mutex
	loaded  bool
	mirror  []storage.Article
	savedAt time.Time
	// down is set while the store is failing reads, so an outage is
	// logged once rather than on every Load
	down bool
}

func NewCache(kv storage.KV) *Cache {
	return &Cache{kv: kv, now: time.Now}
}

// Load returns the cached feed, or an empty slice when nothing usable is
// stored. Storage failures are logged, never returned.
func (c *Cache) Load() []storage.Article {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.readLocked()
	}
	out := storage.Clone(c.mirror)
	if out == nil {
		out = []storage.Article{}
	}
	return out
}

func (c *Cache) readLocked() {
	raw, err := c.kv.Get(feedKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			if !c.down {
				debuglog.Warnf("offline cache unavailable: %v", err)
			}
			c.down = true
			// leave loaded unset so the next Load retries the store
			return
		}
		c.recoveredLocked()
		c.loaded = true
		return
	}
	c.recoveredLocked()

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		debuglog.Warnf("offline cache corrupt, ignoring: %v", err)
		c.loaded = true
		return
	}
	if env.Version != feedVersion {
		debuglog.Warnf("offline cache version %d unsupported, ignoring", env.Version)
		c.loaded = true
		return
	}

	c.mirror = env.Articles
	c.savedAt = env.SavedAt
	c.loaded = true
}

// Save replaces the cached feed. A failed write leaves the previous state
// visible to Load.
func (c *Cache) Save(articles []storage.Article) error {
	now := c.now()
	env := envelope{
		Version:  feedVersion,
		SavedAt:  now,
		Articles: storage.Clone(articles),
	}
	if env.Articles == nil {
		env.Articles = []storage.Article{}
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return &storage.StorageError{Op: "encode", Key: feedKey, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(feedKey, raw); err != nil {
		debuglog.Errorf("saving offline feed: %v", err)
		return asStorageError("set", err)
	}

	c.mirror = env.Articles
	c.savedAt = now
	c.loaded = true
	debuglog.Debugf("offline feed saved (%d articles)", len(articles))
	return nil
}

// Clear removes the cached feed.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Remove(feedKey); err != nil {
		return asStorageError("remove", err)
	}
	c.mirror = nil
	c.savedAt = time.Time{}
	c.loaded = true
	return nil
}

// SavedAt reports when the cached feed was written, zero if it never was.
func (c *Cache) SavedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		c.readLocked()
	}
	return c.savedAt
}

func (c *Cache) recoveredLocked() {
	if c.down {
		debuglog.Infof("offline cache reachable again")
		c.down = false
	}
}

func asStorageError(op string, err error) error {
	var se *storage.StorageError
	if errors.As(err, &se) {
		return se
	}
	return &storage.StorageError{Op: op, Key: feedKey, Err: fmt.Errorf("offline cache: %w", err)}
}
