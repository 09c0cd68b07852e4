package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
)

const maxBodyBytes = 8 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code       int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.Code)
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

func NewFetcher(cfg *config.Config) *Fetcher {
	limit := rate.Inf
	if cfg.Source.RateLimit > 0 {
		limit = rate.Limit(cfg.Source.RateLimit)
	}
	burst := cfg.Source.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Source.HTTPTimeout,
		},
		userAgent: cfg.Source.UserAgent,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Fetch GETs url and returns the response body. It waits for the rate
// limiter first, so a cancelled ctx can abort before any request is made.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	debuglog.WithFields(map[string]interface{}{
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	}).Debugf("GET %s", url)

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, RetryAfter: retryAfter(resp)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}
