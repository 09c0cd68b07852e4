package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/storage"
	"github.com/pders01/cyberx/internal/validation"
)

// Client queries an RSS search endpoint in the Google News format
// (?q=&hl=&gl=&ceid=).
type Client struct {
	endpoint *url.URL
	language string
	region   string
	edition  string
	fetcher  *Fetcher
	parser   *Parser
}

func NewClient(cfg *config.Config) (*Client, error) {
	validator := validation.NewURLValidator()
	if cfg.Source.AllowPrivate {
		validator = validation.NewPermissiveURLValidator()
	}

	endpoint, err := validator.ValidateAndNormalize(cfg.Source.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid source endpoint: %w", err)
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid source endpoint: %w", err)
	}

	return &Client{
		endpoint: u,
		language: cfg.Source.Language,
		region:   cfg.Source.Region,
		edition:  cfg.Source.Edition,
		fetcher:  NewFetcher(cfg),
		parser:   NewParser(validator),
	}, nil
}

// Name identifies the client in errors and logs.
func (c *Client) Name() string {
	return c.endpoint.Host
}

func (c *Client) searchURL(query string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set("q", query)
	if c.language != "" {
		q.Set("hl", c.language)
	}
	if c.region != "" {
		q.Set("gl", c.region)
	}
	if c.edition != "" {
		q.Set("ceid", c.edition)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) Fetch(ctx context.Context, query string, limit int) ([]storage.Article, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &FetchError{Source: c.Name(), Query: query, Err: errors.New("empty query")}
	}

	body, err := c.fetcher.Fetch(ctx, c.searchURL(query))
	if err != nil {
		return nil, &FetchError{Source: c.Name(), Query: query, Err: err}
	}

	articles, err := c.parser.Parse(bytes.NewReader(body), limit)
	if err != nil {
		return nil, &FetchError{Source: c.Name(), Query: query, Err: err}
	}

	debuglog.Infof("fetched %d articles for %q from %s", len(articles), query, c.Name())
	return articles, nil
}
