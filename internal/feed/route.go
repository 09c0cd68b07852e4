package feed

// Index is a local store of seen articles that can also answer queries.
type Index interface {
	NewsSource
	UpdateListener
}

// Routes holds the sources for the default feed and for user searches.
type Routes struct {
	// Default never consults the index. Its fallback is the offline
	// cache, which an index hit would otherwise shadow and overwrite.
	Default NewsSource
	Search  NewsSource
}

// Route feeds every remote result into index and, when fallback is set,
// answers searches from the index while the remote is failing. A nil
// index routes both streams straight to remote.
func Route(remote NewsSource, index Index, fallback bool) Routes {
	if index == nil {
		return Routes{Default: remote, Search: remote}
	}

	observed := Observe(remote, index)
	r := Routes{Default: observed, Search: observed}
	if fallback {
		r.Search = NewChain(observed, index)
	}
	return r
}
