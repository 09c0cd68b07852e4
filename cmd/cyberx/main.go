package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/cyberx/internal/config"
	"github.com/pders01/cyberx/internal/debuglog"
	"github.com/pders01/cyberx/internal/tui"
)

// Version is the version of the application, set at build time
var Version = "dev"

var (
	configPath string
	dbPath     string
	logLevel   string
	ephemeral  bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "cyberx",
	Short: "Search and read cybersecurity news in the terminal",
	Long: `cyberx searches a news feed for cybersecurity stories, keeps the last
good headlines for offline use and indexes everything it has seen so
searches still work when the network does not.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to configuration file")
	flags.StringVar(&dbPath, "db", "", "path to database file (overrides config)")
	flags.StringVar(&logLevel, "log-level", "", "debug log level: off, error, warn, info, debug")
	flags.BoolVar(&ephemeral, "ephemeral", false, "keep cache, history and index in memory only")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "skip startup banner")

	rootCmd.AddCommand(searchCmd, cacheCmd, configCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dbPath != "" {
		cfg.Database.Path = config.ExpandPath(dbPath)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), debuglog.Options{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: debug log disabled: %v\n", err)
	}

	return cfg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer debuglog.Close()

	if !quiet {
		tui.ShowBanner(Version)
	}

	env, err := openEnv(cfg, ephemeral)
	if err != nil {
		return err
	}
	defer env.Close()

	deps := tui.Deps{
		Orchestrator: env.orchestrator(cfg),
		Cache:        env.cache,
		Launcher:     env.launcher,
	}
	if env.archive != nil {
		deps.Archive = env.archive
	}
	app := tui.NewApp(cfg, deps)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
