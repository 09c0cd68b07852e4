package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/cyberx/internal/config"
)

func TestFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name           string
		serverResponse func(w http.ResponseWriter, r *http.Request)
		expectBody     string
		expectStatus   int
	}{
		{
			name: "successful fetch",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") != "cyberx-test/1.0" {
					t.Errorf("expected test User-Agent, got %s", r.Header.Get("User-Agent"))
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("<rss></rss>"))
			},
			expectBody: "<rss></rss>",
		},
		{
			name: "server error",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			expectStatus: http.StatusInternalServerError,
		},
		{
			name: "rate limited with retry-after",
			serverResponse: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "30")
				w.WriteHeader(http.StatusTooManyRequests)
			},
			expectStatus: http.StatusTooManyRequests,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResponse))
			defer server.Close()

			fetcher := NewFetcher(config.TestConfig())
			body, err := fetcher.Fetch(context.Background(), server.URL)

			if tt.expectStatus != 0 {
				var se *StatusError
				require.True(t, errors.As(err, &se), "expected StatusError, got %v", err)
				assert.Equal(t, tt.expectStatus, se.Code)
				if tt.expectStatus == http.StatusTooManyRequests {
					assert.Equal(t, 30*time.Second, se.RetryAfter)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectBody, string(body))
		})
	}
}

func TestFetcher_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher(config.TestConfig()).Fetch(ctx, server.URL)
	assert.Error(t, err)
}

func TestFetcher_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := config.TestConfig()
	cfg.Source.RateLimit = 0.001
	cfg.Source.Burst = 1
	fetcher := NewFetcher(cfg)

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	// the bucket is empty and refills far slower than the deadline
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = fetcher.Fetch(ctx, server.URL)
	assert.Error(t, err)
}
