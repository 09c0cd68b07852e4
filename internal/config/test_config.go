package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	def := defaultConfig()
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Source: SourceConfig{
			Endpoint:     "http://127.0.0.1/rss/search",
			Language:     "en-US",
			Region:       "US",
			Edition:      "US:en",
			UserAgent:    "cyberx-test/1.0",
			HTTPTimeout:  5 * time.Second,
			Burst:        1,
			AllowPrivate: true,
		},
		Search: def.Search,
		Log:    LogConfig{Level: "off"},
		UI:     def.UI,
		Keys:   def.Keys,
	}
}
