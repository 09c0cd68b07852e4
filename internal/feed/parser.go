package feed

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/normalize"
	"github.com/pders01/cyberx/internal/storage"
	"github.com/pders01/cyberx/internal/validation"
)

type Parser struct {
	parser    *gofeed.Parser
	validator *validation.URLValidator
}

func NewParser(validator *validation.URLValidator) *Parser {
	if validator == nil {
		validator = validation.NewURLValidator()
	}
	return &Parser{
		parser:    gofeed.NewParser(),
		validator: validator,
	}
}

// Parse maps every usable item of an RSS/Atom document to an Article.
// Items without a valid link are dropped, duplicates by URL keep the first
// occurrence, and at most limit articles are returned (limit <= 0 means all).
func (p *Parser) Parse(reader io.Reader, limit int) ([]storage.Article, error) {
	feed, err := p.parser.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	articles := make([]storage.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		link, err := p.validator.ValidateAndNormalize(strings.TrimSpace(item.Link))
		if err != nil {
			debuglog.Debugf("dropping item %q: %v", item.Title, err)
			continue
		}

		title, source := splitTitle(item.Title)
		if source == "" {
			source = publisherHost(link)
		}

		article := storage.Article{
			Title:       title,
			Description: normalize.PlainText(item.Description),
			URL:         link,
			ImageURL:    p.imageURL(item),
			Source:      source,
			Content:     contentMarkdown(item.Content),
			Author:      author(item),
		}

		if item.PublishedParsed != nil {
			article.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			article.PublishedAt = *item.UpdatedParsed
		}

		articles = append(articles, article)
	}

	articles = storage.Dedupe(articles)
	if limit > 0 && len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// splitTitle separates the " - Publisher" suffix news aggregators append to
// headlines. Only the last separator counts so hyphenated headlines survive.
func splitTitle(raw string) (title, source string) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, " - ")
	if idx <= 0 {
		return raw, ""
	}
	title = strings.TrimSpace(raw[:idx])
	source = strings.TrimSpace(raw[idx+3:])
	if title == "" || source == "" {
		return raw, ""
	}
	return title, source
}

func publisherHost(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func contentMarkdown(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	md, err := normalize.HTMLToMarkdown(html)
	if err != nil {
		debuglog.Debugf("markdown conversion failed, using plain text: %v", err)
		return normalize.PlainText(html)
	}
	return md
}

func author(item *gofeed.Item) string {
	if item.Author != nil && item.Author.Name != "" {
		return item.Author.Name
	}
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	return ""
}

func (p *Parser) imageURL(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure.URL != "" && (enclosure.Type == "" || strings.HasPrefix(enclosure.Type, "image/")) {
			if u, err := p.validator.ValidateAndNormalize(enclosure.URL); err == nil {
				return u
			}
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		if u, err := p.validator.ValidateAndNormalize(item.Image.URL); err == nil {
			return u
		}
	}

	for _, html := range []string{item.Content, item.Description} {
		if src := firstImage(html); src != "" {
			if u, err := p.validator.ValidateAndNormalize(src); err == nil {
				return u
			}
		}
	}
	return ""
}

func firstImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
