package main

import (
	"errors"
	"fmt"

	"github.com/pders01/cyberx/internal/archive"
	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/feed"
	"github.com/pders01/cyberx/internal/offline"
	"github.com/pders01/cyberx/internal/opener"
	"github.com/pders01/cyberx/internal/search"
	"github.com/pders01/cyberx/internal/storage"
)

// env holds the long-lived collaborators shared by the TUI and the
// one-shot commands.
type env struct {
	kv       storage.KV
	store    *storage.Store
	cache    *offline.Cache
	history  *offline.History
	archive  *archive.Archive
	remote   *feed.CachedSource
	routes   feed.Routes
	launcher *opener.Launcher
}

// openStorage opens the bbolt database, or an in-memory KV when ephemeral.
func openStorage(cfg *config.Config, ephemeral bool) (storage.KV, *storage.Store, error) {
	if ephemeral {
		return storage.NewMemory(), nil, nil
	}
	store, err := storage.NewStore(cfg.Database.Path, cfg.Database.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, store, nil
}

func openEnv(cfg *config.Config, ephemeral bool) (*env, error) {
	kv, store, err := openStorage(cfg, ephemeral)
	if err != nil {
		return nil, err
	}

	e := &env{
		kv:       kv,
		store:    store,
		cache:    offline.NewCache(kv),
		history:  offline.NewHistory(kv),
		launcher: opener.NewLauncher(cfg),
	}

	indexPath := cfg.Database.SearchIndex
	if ephemeral {
		indexPath = ""
	}
	e.archive, err = archive.Open(indexPath)
	if err != nil {
		// the index is an optimisation; run without it
		debuglog.Warnf("archive unavailable: %v", err)
		e.archive = nil
	}

	client, err := feed.NewClient(cfg)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	e.remote = feed.NewCachedSource(client, cfg.Source.CacheTTL)

	var index feed.Index
	if e.archive != nil {
		index = e.archive
		// headlines saved by an earlier run are searchable offline too
		if saved := e.cache.Load(); len(saved) > 0 {
			e.archive.OnArticles("", saved)
		}
	}
	e.routes = feed.Route(e.remote, index, cfg.Source.ArchiveFallback)

	return e, nil
}

func (e *env) orchestrator(cfg *config.Config) *search.Orchestrator {
	return search.New(cfg, e.routes.Search, e.cache,
		search.WithDefaultSource(e.routes.Default),
		search.WithHistory(e.history),
	)
}

func (e *env) Close() error {
	var errs []error
	if e.archive != nil {
		errs = append(errs, e.archive.Close())
	}
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	return errors.Join(errs...)
}
