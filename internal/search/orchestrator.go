// Package search drives user searches against a news source: it debounces
// keystrokes, discards stale responses, degrades to cached or placeholder
// data when the source fails, and remembers recent queries.
//
// The Orchestrator follows the bubbletea model. Intents (SetQuery, Submit,
// Refresh, ...) mutate state synchronously and return a tea.Cmd for any
// blocking work; the command's result comes back through Update. All
// methods must be called from a single goroutine, normally the program
// loop.
package search

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/feed"
	"github.com/pders01/cyberx/internal/offline"
	"github.com/pders01/cyberx/internal/storage"
)

const defaultFetchTimeout = 30 * time.Second

type defaultLoadedMsg struct {
	token    uint64
	articles []storage.Article
	origin   Origin
	err      error
}

type searchResultMsg struct {
	token    uint64
	query    string
	articles []storage.Article
	err      error
}

type historyLoadedMsg struct {
	queries []string
}

// persistedMsg reports the outcome of a background write. Failures are
// only logged.
type persistedMsg struct {
	what string
	err  error
}

type Option func(*Orchestrator)

// WithClock replaces the wall clock, typically with a ManualClock.
func WithClock(c Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithHistory persists recent searches.
func WithHistory(h *offline.History) Option {
	return func(o *Orchestrator) { o.history = h }
}

// WithDefaultSource serves the default feed from src instead of the search
// source. The default feed falls back to the offline cache on failure, so
// src should not carry a fallback of its own.
func WithDefaultSource(src feed.NewsSource) Option {
	return func(o *Orchestrator) { o.defaultSource = src }
}

// WithFetchTimeout bounds every source call.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.fetchTimeout = d
		}
	}
}

type Orchestrator struct {
	source        feed.NewsSource
	defaultSource feed.NewsSource
	cache         *offline.Cache
	history       *offline.History
	clock         Clock

	seedQuery    string
	defaultLimit int
	resultLimit  int
	maxRecent    int
	categories   []string
	fetchTimeout time.Duration

	debounce debouncer
	tokens   [channelCount]uint64

	queryText      string
	debouncedQuery string
	results        []storage.Article
	defaults       []storage.Article
	origin         Origin
	recent         []string
	lastErr        error
	updatedAt      time.Time

	loadingDefault bool
	searching      bool
	refreshing     bool
	refreshChannel Channel
	refreshToken   uint64
}

func New(cfg *config.Config, source feed.NewsSource, cache *offline.Cache, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:        source,
		defaultSource: source,
		cache:         cache,
		clock:         realClock{},
		seedQuery:     cfg.Search.SeedQuery,
		defaultLimit:  cfg.Search.DefaultLimit,
		resultLimit:   cfg.Search.ResultLimit,
		maxRecent:     cfg.Search.MaxRecent,
		categories:    append([]string(nil), cfg.Search.Categories...),
		fetchTimeout:  defaultFetchTimeout,
		recent:        []string{},
	}
	for _, opt := range opts {
		opt(o)
	}
	o.debounce = debouncer{clock: o.clock, wait: cfg.Search.Debounce}
	return o
}

// Init starts the default feed load and, when configured, restores the
// persisted recent searches.
func (o *Orchestrator) Init() tea.Cmd {
	cmds := []tea.Cmd{o.loadDefault(false)}
	if o.history != nil {
		h := o.history
		cmds = append(cmds, func() tea.Msg {
			return historyLoadedMsg{queries: h.Load()}
		})
	}
	return tea.Batch(cmds...)
}

func (o *Orchestrator) nextToken(ch Channel) uint64 {
	o.tokens[ch]++
	return o.tokens[ch]
}

func (o *Orchestrator) loadDefault(refresh bool) tea.Cmd {
	token := o.nextToken(ChannelDefault)
	o.loadingDefault = true
	if refresh {
		o.markRefresh(ChannelDefault, token)
	}

	src, cache := o.defaultSource, o.cache
	seed, limit, timeout := o.seedQuery, o.defaultLimit, o.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if refresh {
			ctx = feed.WithoutCache(ctx)
		}

		articles, err := src.Fetch(ctx, seed, limit)
		if err == nil {
			return defaultLoadedMsg{token: token, articles: articles, origin: OriginRemote}
		}

		debuglog.Warnf("default feed unavailable: %v", err)
		if cached := cache.Load(); len(cached) > 0 {
			return defaultLoadedMsg{token: token, articles: cached, origin: OriginCache, err: err}
		}
		return defaultLoadedMsg{token: token, articles: Placeholders(), origin: OriginPlaceholder, err: err}
	}
}

func (o *Orchestrator) dispatchSearch(query string, refresh bool) tea.Cmd {
	token := o.nextToken(ChannelSearch)
	o.searching = true
	if refresh {
		o.markRefresh(ChannelSearch, token)
	}

	src, limit, timeout := o.source, o.resultLimit, o.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if refresh {
			ctx = feed.WithoutCache(ctx)
		}

		articles, err := src.Fetch(ctx, query, limit)
		return searchResultMsg{token: token, query: query, articles: articles, err: err}
	}
}

func (o *Orchestrator) markRefresh(ch Channel, token uint64) {
	o.refreshing = true
	o.refreshChannel = ch
	o.refreshToken = token
}

// settleRefresh clears the refreshing flag when the request it started
// comes back, current or not.
func (o *Orchestrator) settleRefresh(ch Channel, token uint64) {
	if o.refreshing && o.refreshChannel == ch && o.refreshToken == token {
		o.refreshing = false
	}
}

// SetQuery records the text the user typed. A non-blank query (re)arms the
// debounce timer; a blank one clears the search immediately.
func (o *Orchestrator) SetQuery(q string) tea.Cmd {
	o.queryText = q
	if strings.TrimSpace(q) == "" {
		o.clearSearch()
		return nil
	}
	return o.debounce.arm()
}

func (o *Orchestrator) clearSearch() {
	o.debounce.cancel()
	o.debouncedQuery = ""
	o.results = nil
	// invalidate whatever search is still in flight
	o.nextToken(ChannelSearch)
	o.searching = false
}

// Submit searches for the current query right away, skipping the debounce.
func (o *Orchestrator) Submit() tea.Cmd {
	o.debounce.cancel()
	return o.commitQuery(false)
}

// SelectCategory searches for a quick-category token immediately.
func (o *Orchestrator) SelectCategory(token string) tea.Cmd {
	o.queryText = token
	return o.Submit()
}

func (o *Orchestrator) commitQuery(refresh bool) tea.Cmd {
	q := strings.TrimSpace(o.queryText)
	if q == "" {
		o.clearSearch()
		return nil
	}
	o.debouncedQuery = q
	return o.dispatchSearch(q, refresh)
}

// Refresh re-runs the active search, or reloads the default feed when no
// search is active. It is ignored while the default feed is loading or a
// refresh is already outstanding.
func (o *Orchestrator) Refresh() tea.Cmd {
	switch o.Status() {
	case StatusIdle, StatusSearching:
	default:
		return nil
	}

	if o.debouncedQuery != "" {
		return o.dispatchSearch(o.debouncedQuery, true)
	}
	return o.loadDefault(true)
}

// Update applies the result of a command issued earlier. Messages that do
// not belong to the orchestrator are ignored.
func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceFiredMsg:
		if !o.debounce.current(msg.seq) {
			return nil
		}
		o.debounce.fired()
		return o.commitQuery(false)

	case defaultLoadedMsg:
		return o.handleDefault(msg)

	case searchResultMsg:
		return o.handleSearch(msg)

	case historyLoadedMsg:
		o.recent = mergeRecent(o.recent, msg.queries, o.maxRecent)
		return nil

	case persistedMsg:
		if msg.err != nil {
			debuglog.Errorf("persisting %s: %v", msg.what, msg.err)
		}
		return nil
	}
	return nil
}

func (o *Orchestrator) handleDefault(msg defaultLoadedMsg) tea.Cmd {
	o.settleRefresh(ChannelDefault, msg.token)
	if msg.token != o.tokens[ChannelDefault] {
		debuglog.Debugf("dropping stale default feed (token %d)", msg.token)
		return nil
	}

	o.loadingDefault = false
	o.defaults = msg.articles
	o.origin = msg.origin
	o.lastErr = msg.err
	o.updatedAt = o.clock.Now()

	// an empty answer is not worth replacing a known-good offline copy
	if msg.origin != OriginRemote || len(msg.articles) == 0 {
		return nil
	}
	cache, articles := o.cache, storage.Clone(msg.articles)
	return func() tea.Msg {
		return persistedMsg{what: "offline feed", err: cache.Save(articles)}
	}
}

func (o *Orchestrator) handleSearch(msg searchResultMsg) tea.Cmd {
	o.settleRefresh(ChannelSearch, msg.token)
	if msg.token != o.tokens[ChannelSearch] {
		debuglog.Debugf("dropping stale results for %q (token %d)", msg.query, msg.token)
		return nil
	}

	o.searching = false
	o.updatedAt = o.clock.Now()
	if msg.err != nil {
		debuglog.Warnf("search %q failed: %v", msg.query, msg.err)
		o.results = []storage.Article{}
		o.lastErr = msg.err
		return nil
	}

	o.results = msg.articles
	if o.results == nil {
		o.results = []storage.Article{}
	}
	o.lastErr = nil
	o.recent = pushRecent(o.recent, msg.query, o.maxRecent)

	if o.history == nil {
		return nil
	}
	h, queries := o.history, append([]string(nil), o.recent...)
	return func() tea.Msg {
		return persistedMsg{what: "search history", err: h.Save(queries)}
	}
}

// Query is the text as typed.
func (o *Orchestrator) Query() string { return o.queryText }

// DebouncedQuery is the query the current result set belongs to.
func (o *Orchestrator) DebouncedQuery() string { return o.debouncedQuery }

// Displayed is the list the UI should show: search results while a query
// is active, the default feed otherwise.
func (o *Orchestrator) Displayed() []storage.Article {
	if o.debouncedQuery != "" {
		return storage.Clone(o.results)
	}
	return storage.Clone(o.defaults)
}

func (o *Orchestrator) Results() []storage.Article  { return storage.Clone(o.results) }
func (o *Orchestrator) Defaults() []storage.Article { return storage.Clone(o.defaults) }

// Recent returns recent queries, most recent first.
func (o *Orchestrator) Recent() []string { return append([]string(nil), o.recent...) }

func (o *Orchestrator) Categories() []string { return append([]string(nil), o.categories...) }

func (o *Orchestrator) DefaultOrigin() Origin { return o.origin }

// LastError is the most recent swallowed source failure, nil after a
// successful search.
func (o *Orchestrator) LastError() error { return o.lastErr }

// UpdatedAt is when the displayed data last changed from a response.
func (o *Orchestrator) UpdatedAt() time.Time { return o.updatedAt }

func (o *Orchestrator) Status() Status {
	switch {
	case o.refreshing:
		return StatusRefreshing
	case o.searching:
		return StatusSearching
	case o.loadingDefault:
		return StatusLoadingDefault
	default:
		return StatusIdle
	}
}
