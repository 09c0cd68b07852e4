package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		limit  int
		end    string
		middle string
	}{
		{"fits", "short", 10, "short", "short"},
		{"exact", "12345", 5, "12345", "12345"},
		{"cut", "abcdefghij", 5, "abcd…", "ab…ij"},
		{"tiny", "abcdef", 1, "…", "…"},
		{"zero", "abc", 0, "", ""},
		{"runes", "ünïcödé", 4, "ünï…", "ü…dé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.end, truncateEnd(tt.in, tt.limit))
			assert.Equal(t, tt.middle, truncateMiddle(tt.in, tt.limit))
		})
	}
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		ago  time.Duration
		want string
	}{
		{20 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
		{10 * 24 * time.Hour, "Feb 28, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeAge(now.Add(-tt.ago), now))
		})
	}

	assert.Equal(t, "", relativeAge(time.Time{}, now))
}
