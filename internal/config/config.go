package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Source   SourceConfig   `mapstructure:"source"`
	Search   SearchConfig   `mapstructure:"search"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

// SourceConfig describes the remote news search endpoint and how hard we
// are allowed to hit it.
type SourceConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Language        string        `mapstructure:"language"`
	Region          string        `mapstructure:"region"`
	Edition         string        `mapstructure:"edition"`
	UserAgent       string        `mapstructure:"user_agent"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	Burst           int           `mapstructure:"burst"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	ArchiveFallback bool          `mapstructure:"archive_fallback"`
	AllowPrivate    bool          `mapstructure:"allow_private"`
}

type SearchConfig struct {
	SeedQuery    string        `mapstructure:"seed_query"`
	DefaultLimit int           `mapstructure:"default_limit"`
	ResultLimit  int           `mapstructure:"result_limit"`
	Debounce     time.Duration `mapstructure:"debounce"`
	MaxRecent    int           `mapstructure:"max_recent"`
	Categories   []string      `mapstructure:"categories"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Article ArticleConfig `mapstructure:"article"`
	// Browser overrides the platform command used to open links, e.g. "firefox --new-tab".
	Browser string `mapstructure:"browser"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
	Error     string `mapstructure:"error"`
	Success   string `mapstructure:"success"`
}

type ArticleConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit    string `mapstructure:"quit"`
	Refresh string `mapstructure:"refresh"`
	Open    string `mapstructure:"open"`
	Back    string `mapstructure:"back"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".cyberx")

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(homeDir, ".cyberx.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Source: SourceConfig{
			Endpoint:        "https://news.google.com/rss/search",
			Language:        "en-IN",
			Region:          "IN",
			Edition:         "IN:en",
			UserAgent:       "cyberx/1.0 (https://github.com/pders01/cyberx)",
			HTTPTimeout:     10 * time.Second,
			RateLimit:       2,
			Burst:           4,
			CacheTTL:        2 * time.Minute,
			ArchiveFallback: true,
		},
		Search: SearchConfig{
			SeedQuery:    "cybersecurity",
			DefaultLimit: 15,
			ResultLimit:  20,
			Debounce:     500 * time.Millisecond,
			MaxRecent:    5,
			Categories: []string{
				"Ransomware",
				"Data Breach",
				"Phishing",
				"Malware",
				"Zero-Day",
				"Vulnerability",
			},
		},
		Log: LogConfig{
			Level:      "off",
			File:       filepath.Join(dataDir, "cyberx.log"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
				Error:     "#F87171",
				Success:   "#4ADE80",
			},
			Article: ArticleConfig{
				MaxDescriptionLength: 150,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
			},
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:    "q",
				Refresh: "r",
				Open:    "o",
				Back:    "esc",
			},
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// defaults go in as nested maps so a partial [section] in the file
	// only overrides the keys it names
	for section, values := range toMap(defaultConfig()) {
		v.SetDefault(section, values)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "cyberx")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CYBERX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyFloors(&config)
	expandPaths(&config)

	return &config, nil
}

// applyFloors replaces nonsensical numeric settings with the defaults.
func applyFloors(cfg *Config) {
	def := defaultConfig()
	if cfg.Search.DefaultLimit <= 0 {
		cfg.Search.DefaultLimit = def.Search.DefaultLimit
	}
	if cfg.Search.ResultLimit <= 0 {
		cfg.Search.ResultLimit = def.Search.ResultLimit
	}
	if cfg.Search.MaxRecent <= 0 {
		cfg.Search.MaxRecent = def.Search.MaxRecent
	}
	if cfg.Search.Debounce <= 0 {
		cfg.Search.Debounce = def.Search.Debounce
	}
	if cfg.Source.HTTPTimeout <= 0 {
		cfg.Source.HTTPTimeout = def.Source.HTTPTimeout
	}
	if cfg.Source.Burst <= 0 {
		cfg.Source.Burst = 1
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

// expandPaths expands all paths in the config
func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Log.File = expandPath(cfg.Log.File)
}

// ExpandPath is expandPath for callers outside the package (CLI flags).
func ExpandPath(path string) string {
	return expandPath(path)
}

// toMap flattens durations to strings so the written TOML stays readable.
func toMap(config *Config) map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path":         config.Database.Path,
			"timeout":      config.Database.Timeout.String(),
			"search_index": config.Database.SearchIndex,
		},
		"source": map[string]interface{}{
			"endpoint":         config.Source.Endpoint,
			"language":         config.Source.Language,
			"region":           config.Source.Region,
			"edition":          config.Source.Edition,
			"user_agent":       config.Source.UserAgent,
			"http_timeout":     config.Source.HTTPTimeout.String(),
			"rate_limit":       config.Source.RateLimit,
			"burst":            config.Source.Burst,
			"cache_ttl":        config.Source.CacheTTL.String(),
			"archive_fallback": config.Source.ArchiveFallback,
			"allow_private":    config.Source.AllowPrivate,
		},
		"search": map[string]interface{}{
			"seed_query":    config.Search.SeedQuery,
			"default_limit": config.Search.DefaultLimit,
			"result_limit":  config.Search.ResultLimit,
			"debounce":      config.Search.Debounce.String(),
			"max_recent":    config.Search.MaxRecent,
			"categories":    config.Search.Categories,
		},
		"log": map[string]interface{}{
			"level":       config.Log.Level,
			"file":        config.Log.File,
			"max_size_mb": config.Log.MaxSizeMB,
			"max_backups": config.Log.MaxBackups,
		},
		"ui": map[string]interface{}{
			"browser": config.UI.Browser,
			"colors": map[string]interface{}{
				"primary":   config.UI.Colors.Primary,
				"secondary": config.UI.Colors.Secondary,
				"accent":    config.UI.Colors.Accent,
				"text":      config.UI.Colors.Text,
				"muted":     config.UI.Colors.Muted,
				"error":     config.UI.Colors.Error,
				"success":   config.UI.Colors.Success,
			},
			"article": map[string]interface{}{
				"max_description_length": config.UI.Article.MaxDescriptionLength,
				"word_wrap_max_width":    config.UI.Article.WordWrapMaxWidth,
				"word_wrap_min_width":    config.UI.Article.WordWrapMinWidth,
			},
		},
		"keys": map[string]interface{}{
			"modifier": config.Keys.Modifier,
			"bindings": map[string]interface{}{
				"quit":    config.Keys.Bindings.Quit,
				"refresh": config.Keys.Bindings.Refresh,
				"open":    config.Keys.Bindings.Open,
				"back":    config.Keys.Bindings.Back,
			},
		},
	}
}

func Save(config *Config, path string) error {
	v := viper.New()
	for section, values := range toMap(config) {
		v.Set(section, values)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
