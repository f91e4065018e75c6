// Package cmd provides the CLI commands for WebStash.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/webstash/webstash/internal/browser"
	"github.com/webstash/webstash/internal/config"
	"github.com/webstash/webstash/internal/engine"
	"github.com/webstash/webstash/internal/logging"
	"github.com/webstash/webstash/internal/storage"
	"github.com/webstash/webstash/pkg/version"
)

var (
	configPath string
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the webstash CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webstash",
		Short: "Search your browser data locally",
		Long: `WebStash indexes your browser's bookmarks, history, and reading list
into a local search engine and assembles ranked context for downstream
consumers. Everything runs locally; nothing leaves your machine.

Run 'webstash index' once, then 'webstash search <query>'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("webstash version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.webstash/config.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.webstash/logs/")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newClearCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func setupLogging(*cobra.Command, []string) error {
	logCfg := logging.DefaultConfig()
	if debugMode {
		logCfg = logging.DebugConfig()
	}
	_, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		// Logging is observability, not functionality.
		fmt.Fprintf(os.Stderr, "warning: logging unavailable: %v\n", err)
		return nil
	}
	loggingCleanup = cleanup
	return nil
}

// loadConfig reads the effective configuration.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.Load(path)
}

// buildEngine wires the configured storage backend and browser providers
// into an engine instance. The caller closes both returns.
func buildEngine(cfg *config.Config) (*engine.Engine, storage.KV, error) {
	kv, err := storage.NewSQLiteKV(cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}

	var (
		bookmarks browser.BookmarkProvider
		history   browser.HistoryProvider
		reading   browser.ReadingListProvider
	)
	if cfg.Profile.Path != "" {
		profile := browser.NewChromeProfile(
			cfg.Profile.Path,
			cfg.History.RangeDays,
			cfg.History.MaxEntries,
		)
		bookmarks, history, reading = profile, profile, profile
	} else {
		slog.Warn("no_profile_configured",
			slog.String("hint", "set profile.path in config or WEBSTASH_PROFILE_PATH"))
	}

	return engine.New(cfg, kv, bookmarks, history, reading), kv, nil
}
