package search

import "github.com/pders01/cyberx/internal/storage"

// Placeholders is the fixed feed shown when neither the source nor the
// offline cache can supply one. It is never persisted.
func Placeholders() []storage.Article {
	return []storage.Article{
		{
			Title:       "Unable to reach the news service",
			Description: "Live cybersecurity headlines could not be loaded. Check your connection and press ctrl+r to retry.",
			Source:      "cyberx",
		},
		{
			Title:       "No saved headlines yet",
			Description: "Previously loaded headlines will appear here once a feed has been fetched successfully.",
			Source:      "cyberx",
		},
	}
}
