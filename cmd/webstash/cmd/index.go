package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/webstash/webstash/internal/output"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the search index from browser data",
		Long: `Fetch bookmarks, history, and the reading list from the configured
browser profile and rebuild the search index wholesale.

A source that cannot be read contributes zero items; the rebuild
still succeeds with whatever was available.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd)
		},
	}
}

func runIndex(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, kv, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()
	defer eng.Close()

	out := output.ForWriter(cmd.OutOrStdout())
	start := time.Now()

	if err := eng.Rebuild(cmd.Context()); err != nil {
		return err
	}
	eng.Flush()

	stats := eng.Stats(cmd.Context())
	slog.Info("index_command_complete",
		slog.Int("documents", stats.DocumentCount),
		slog.Duration("elapsed", time.Since(start)))

	out.Successf("indexed %d documents in %s", stats.DocumentCount, time.Since(start).Round(time.Millisecond))
	return nil
}
