package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/normalize"
	"github.com/pders01/cyberx/internal/offline"
	"github.com/pders01/cyberx/internal/search"
	"github.com/pders01/cyberx/internal/storage"
	"github.com/pders01/cyberx/internal/tui"
)

var (
	searchLimit int
	searchFull  bool
	forceWrite  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Run one search and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		if searchLimit > 0 {
			cfg.Search.ResultLimit = searchLimit
		}

		env, err := openEnv(cfg, ephemeral)
		if err != nil {
			return err
		}
		defer env.Close()

		query := strings.Join(args, " ")
		o := env.orchestrator(cfg)
		search.Drain(o, o.SelectCategory(query))

		results := o.Results()
		if len(results) == 0 {
			if err := o.LastError(); err != nil {
				return fmt.Errorf("search %q: %w", query, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "No results for %q\n", query)
			return nil
		}

		printArticles(cmd.OutOrStdout(), results, searchFull, time.Now())
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the offline headline cache",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cached default feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		kv, store, err := openStorage(cfg, ephemeral)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		cache := offline.NewCache(kv)
		articles := cache.Load()
		out := cmd.OutOrStdout()
		if len(articles) == 0 {
			fmt.Fprintln(out, "The offline cache is empty.")
			return nil
		}

		fmt.Fprintf(out, "%d cached headlines, saved %s\n\n", len(articles), cache.SavedAt().Local().Format(time.RFC1123))
		printArticles(out, articles, false, time.Now())
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the cached feed and the recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		kv, store, err := openStorage(cfg, ephemeral)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		if err := offline.NewCache(kv).Clear(); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
		if err := offline.NewHistory(kv).Clear(); err != nil {
			return fmt.Errorf("clearing search history: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Offline cache cleared.")
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write the default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath()
		if len(args) == 1 {
			path = config.ExpandPath(args[0])
		}

		if _, err := os.Stat(path); err == nil && !forceWrite {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}

		if err := config.GenerateDefaultConfig(path); err != nil {
			return fmt.Errorf("failed to generate config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer debuglog.Close()

		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", tui.AppName, Version)
		fmt.Println("Cybersecurity news search")
		fmt.Println("github.com/pders01/cyberx")
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().BoolVar(&searchFull, "full", false, "print the article body under each result")
	configGenerateCmd.Flags().BoolVarP(&forceWrite, "force", "f", false, "overwrite an existing file")

	cacheCmd.AddCommand(cacheShowCmd, cacheClearCmd)
	configCmd.AddCommand(configGenerateCmd, configShowCmd)
}

func defaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cyberx", "config.toml")
}

// printArticles writes a numbered plain-text listing.
func printArticles(w io.Writer, articles []storage.Article, full bool, now time.Time) {
	for i, a := range articles {
		fmt.Fprintf(w, "%2d. %s\n", i+1, a.Title)

		var meta []string
		if a.Source != "" {
			meta = append(meta, a.Source)
		}
		if !a.PublishedAt.IsZero() {
			meta = append(meta, age(a.PublishedAt, now))
		}
		if len(meta) > 0 {
			fmt.Fprintf(w, "    %s\n", strings.Join(meta, " • "))
		}
		if a.URL != "" {
			fmt.Fprintf(w, "    %s\n", a.URL)
		}
		if full {
			if body := normalize.Body(a); body != "" {
				for _, line := range strings.Split(body, "\n") {
					fmt.Fprintf(w, "    %s\n", line)
				}
			}
		}
		fmt.Fprintln(w)
	}
}

func age(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("2006-01-02")
	}
}
