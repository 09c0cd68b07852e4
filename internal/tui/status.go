package tui

import (
	"fmt"
	"time"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingFeed    = "Loading headlines…"
	MsgSearching      = "Searching…"
	MsgRefreshing     = "Refreshing…"
	MsgLoadingArticle = "Loading article…"
	MsgNoResults      = "No results"
	MsgPlaceholder    = "Offline: no headlines available"
	MsgNoLink         = "This article has no link"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgNoResultsFor(query string) string {
	return fmt.Sprintf("No results for %q", query)
}

// MsgCachedFeed describes a default feed served from the offline cache.
func MsgCachedFeed(savedAt, now time.Time) string {
	if savedAt.IsZero() {
		return "Offline: showing cached headlines"
	}
	return "Offline: cached " + relativeAge(savedAt, now)
}

func MsgIndexSize(docs int) string {
	return fmt.Sprintf("idx: %d docs", docs)
}
