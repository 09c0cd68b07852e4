// Package archive keeps a local full-text index of every article the
// remote source has returned, so searches still answer while offline.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bleveQuery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/feed"
	"github.com/pders01/cyberx/internal/storage"
)

// ErrNoMatches is returned by Fetch when the index holds nothing for the
// query, so a chain treats the archive as having failed.
var ErrNoMatches = errors.New("no archived articles match")

const sourceName = "archive"

// field boosts; prefix queries get a slightly lower weight than full matches
var fieldBoosts = []struct {
	field string
	boost float64
}{
	{"title", 3.0},
	{"summary", 2.0},
	{"description", 1.0},
	{"content", 0.5},
}

const prefixFactor = 0.9

var storedFields = []string{
	"title", "description", "summary", "content", "url",
	"image_url", "source", "author", "published",
}

type Archive struct {
	idx bleve.Index
}

// Open opens or creates the index at path. An empty path gives an
// in-memory index that lives as long as the process.
func Open(path string) (*Archive, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("creating in-memory index: %w", err)
		}
		return &Archive{idx: idx}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		idx, err = bleve.New(path, buildIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("opening index %s: %w", path, err)
	}
	return &Archive{idx: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = standard.Name

	dm := bleve.NewDocumentMapping()

	for _, name := range []string{"title", "description", "summary", "content"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = standard.Name
		fm.Store = true
		fm.IncludeTermVectors = name == "title"
		dm.AddFieldMappingsAt(name, fm)
	}

	for _, name := range []string{"url", "image_url", "source", "author"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = true
		fm.IncludeInAll = false
		dm.AddFieldMappingsAt(name, fm)
	}

	published := bleve.NewDateTimeFieldMapping()
	published.Store = true
	published.DocValues = true
	dm.AddFieldMappingsAt("published", published)

	im.DefaultMapping = dm
	return im
}

// OnArticles indexes articles keyed by URL; articles without one are
// skipped. It satisfies feed.UpdateListener.
func (a *Archive) OnArticles(query string, articles []storage.Article) {
	batch := a.idx.NewBatch()
	for _, art := range articles {
		if art.URL == "" {
			continue
		}
		doc := map[string]any{
			"title":       art.Title,
			"description": art.Description,
			"summary":     art.Summary,
			"content":     art.Content,
			"url":         art.URL,
			"image_url":   art.ImageURL,
			"source":      art.Source,
			"author":      art.Author,
		}
		// bleve rejects times outside the int64 nanosecond range
		if !art.PublishedAt.IsZero() {
			doc["published"] = art.PublishedAt.UTC()
		}
		if err := batch.Index(art.URL, doc); err != nil {
			debuglog.Warnf("archive: indexing %s: %v", art.URL, err)
		}
	}
	if batch.Size() == 0 {
		return
	}
	if err := a.idx.Batch(batch); err != nil {
		debuglog.Errorf("archive: batch for %q failed: %v", query, err)
		return
	}
	debuglog.Debugf("archive: indexed %d articles for %q", batch.Size(), query)
}

// Fetch searches the index. Every query token is matched and prefix-matched
// against the text fields; hits are ordered by score, then recency.
func (a *Archive) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, &feed.FetchError{Source: sourceName, Query: query, Err: err}
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, &feed.FetchError{Source: sourceName, Query: query, Err: ErrNoMatches}
	}
	if limit <= 0 {
		limit = 20
	}

	var qs []bleveQuery.Query
	for _, tok := range tokens {
		for _, fb := range fieldBoosts {
			m := bleve.NewMatchQuery(tok)
			m.SetField(fb.field)
			m.SetBoost(fb.boost)
			qs = append(qs, m)

			p := bleve.NewPrefixQuery(tok)
			p.SetField(fb.field)
			p.SetBoost(fb.boost * prefixFactor)
			qs = append(qs, p)
		}
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(qs...), limit, 0, false)
	req.Fields = storedFields
	req.SortBy([]string{"-_score", "-published"})

	res, err := a.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, &feed.FetchError{Source: sourceName, Query: query, Err: err}
	}
	if len(res.Hits) == 0 {
		return nil, &feed.FetchError{Source: sourceName, Query: query, Err: ErrNoMatches}
	}

	out := make([]storage.Article, 0, len(res.Hits))
	for _, h := range res.Hits {
		art := storage.Article{URL: h.ID}
		art.Title = stringField(h.Fields, "title")
		art.Description = stringField(h.Fields, "description")
		art.Summary = stringField(h.Fields, "summary")
		art.Content = stringField(h.Fields, "content")
		art.ImageURL = stringField(h.Fields, "image_url")
		art.Source = stringField(h.Fields, "source")
		art.Author = stringField(h.Fields, "author")
		if ts := stringField(h.Fields, "published"); ts != "" {
			if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
				art.PublishedAt = t
			}
		}
		out = append(out, art)
	}
	return out, nil
}

func stringField(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

// DocCount reports the number of archived articles.
func (a *Archive) DocCount() (int, error) {
	n, err := a.idx.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (a *Archive) Close() error {
	return a.idx.Close()
}

// tokenize lower-cases text and splits it on anything that is not a letter
// or digit, skipping single characters.
func tokenize(text string) []string {
	var terms []string
	current := strings.Builder{}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
		} else if current.Len() > 0 {
			if term := current.String(); len(term) > 1 {
				terms = append(terms, term)
			}
			current.Reset()
		}
	}

	if current.Len() > 1 {
		terms = append(terms, current.String())
	}

	return terms
}
