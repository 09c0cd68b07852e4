package feed

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/cyberx/internal/storage"
)

func countingSource(calls *int32, result []storage.Article, err error) Func {
	return func(ctx context.Context, query string, limit int) ([]storage.Article, error) {
		atomic.AddInt32(calls, 1)
		return result, err
	}
}

func TestCachedSource_Hit(t *testing.T) {
	var calls int32
	want := []storage.Article{{Title: "a", URL: "u"}}
	src := NewCachedSource(countingSource(&calls, want, nil), time.Minute)

	got, err := src.Fetch(context.Background(), "Ransomware", 20)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// normalised key: case and spacing don't matter
	got, err = src.Fetch(context.Background(), "  ransomware ", 20)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// different limit is a different entry
	_, err = src.Fetch(context.Background(), "ransomware", 15)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	// both entries stay cached
	_, _ = src.Fetch(context.Background(), "ransomware", 20)
	_, _ = src.Fetch(context.Background(), "ransomware", 15)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedSource_ErrorsNotCached(t *testing.T) {
	var calls int32
	src := NewCachedSource(countingSource(&calls, nil, errors.New("down")), time.Minute)

	_, err := src.Fetch(context.Background(), "q", 1)
	assert.Error(t, err)
	_, err = src.Fetch(context.Background(), "q", 1)
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedSource_Bypass(t *testing.T) {
	var calls int32
	src := NewCachedSource(countingSource(&calls, []storage.Article{{Title: "a"}}, nil), time.Minute)

	_, _ = src.Fetch(context.Background(), "q", 1)
	_, _ = src.Fetch(WithoutCache(context.Background()), "q", 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedSource_ZeroTTLDisablesCaching(t *testing.T) {
	var calls int32
	src := NewCachedSource(countingSource(&calls, []storage.Article{{Title: "a"}}, nil), 0)

	_, _ = src.Fetch(context.Background(), "q", 1)
	_, _ = src.Fetch(context.Background(), "q", 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCachedSource_Coalesces(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	slow := Func(func(ctx context.Context, query string, limit int) ([]storage.Article, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []storage.Article{{Title: "slow"}}, nil
	})
	src := NewCachedSource(slow, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := src.Fetch(context.Background(), "q", 1)
			assert.NoError(t, err)
			assert.Len(t, got, 1)
		}()
	}

	// give the goroutines time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCachedSource_ReturnsCopies(t *testing.T) {
	var calls int32
	src := NewCachedSource(countingSource(&calls, []storage.Article{{Title: "orig"}}, nil), time.Minute)

	got, _ := src.Fetch(context.Background(), "q", 1)
	got[0].Title = "mutated"

	again, _ := src.Fetch(context.Background(), "q", 1)
	assert.Equal(t, "orig", again[0].Title)
}

func TestCachedSource_HonoursRetryAfter(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		afterWait   time.Duration
		wantCalls   int32
		wantBackOff bool
	}{
		{
			name:        "retry-after blocks upstream",
			err:         &FetchError{Source: "remote", Err: &StatusError{Code: 429, RetryAfter: time.Minute}},
			afterWait:   30 * time.Second,
			wantCalls:   1,
			wantBackOff: true,
		},
		{
			name:      "retry-after expires",
			err:       &FetchError{Source: "remote", Err: &StatusError{Code: 503, RetryAfter: time.Minute}},
			afterWait: time.Minute,
			wantCalls: 2,
		},
		{
			name:      "status without retry-after",
			err:       &FetchError{Source: "remote", Err: &StatusError{Code: 502}},
			wantCalls: 2,
		},
		{
			name:      "transport error",
			err:       errors.New("connection refused"),
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			now := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
			src := NewCachedSource(countingSource(&calls, nil, tt.err), time.Minute)
			src.now = func() time.Time { return now }

			_, err := src.Fetch(context.Background(), "q", 1)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrBackingOff)

			now = now.Add(tt.afterWait)
			_, err = src.Fetch(context.Background(), "q", 1)
			require.Error(t, err)
			assert.Equal(t, tt.wantBackOff, errors.Is(err, ErrBackingOff))
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))

			if tt.wantBackOff {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, 429, se.Code)
			}
		})
	}
}

func TestCachedSource_BackOffIsPerSource(t *testing.T) {
	var calls int32
	limited := &FetchError{Source: "remote", Err: &StatusError{Code: 429, RetryAfter: time.Minute}}
	src := NewCachedSource(countingSource(&calls, nil, limited), time.Minute)

	_, err := src.Fetch(context.Background(), "ransomware", 1)
	require.Error(t, err)

	// a different query is held back too; the limit applies to the host
	_, err = src.Fetch(WithoutCache(context.Background()), "phishing", 1)
	assert.ErrorIs(t, err, ErrBackingOff)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
