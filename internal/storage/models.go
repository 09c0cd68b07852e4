package storage

import (
	"time"
)

// Article is a single news item as returned by a news source. Values are
// treated as immutable once fetched; display transforms produce new strings.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"image_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author,omitempty"`
	Summary     string    `json:"summary,omitempty"`
}

// Dedupe drops articles whose URL was already seen, keeping the first
// occurrence and the original order. Articles without a URL are kept.
func Dedupe(articles []Article) []Article {
	seen := make(map[string]bool, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.URL != "" {
			if seen[a.URL] {
				continue
			}
			seen[a.URL] = true
		}
		out = append(out, a)
	}
	return out
}

// Clone returns a copy of the slice so callers can't alias internal state.
func Clone(articles []Article) []Article {
	if articles == nil {
		return nil
	}
	out := make([]Article, len(articles))
	copy(out, articles)
	return out
}
