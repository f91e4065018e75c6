package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/webstash/webstash/internal/output"
	"github.com/webstash/webstash/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the browser profile and reindex on change",
		Long: `Run an initial index, then watch the browser profile directory and
rebuild the index whenever the Bookmarks file or History database
changes. Bursts of file events are coalesced; one rebuild fires per
quiet period.

Stops on Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd)
		},
	}
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Profile.Path == "" {
		return fmt.Errorf("no browser profile configured; set profile.path or WEBSTASH_PROFILE_PATH")
	}

	eng, kv, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()
	defer eng.Close()

	out := output.ForWriter(cmd.OutOrStdout())

	if err := eng.Rebuild(cmd.Context()); err != nil {
		return err
	}
	out.Successf("indexed %d documents", eng.Stats(cmd.Context()).DocumentCount)

	w, err := watcher.New(cfg.Profile.Path, time.Duration(cfg.Watch.Debounce), func() {
		ctx := context.Background()
		if err := eng.Rebuild(ctx); err != nil {
			slog.Error("watch_rebuild_failed", slog.String("error", err.Error()))
			return
		}
		out.Statusf("🔄", "reindexed %d documents", eng.Stats(ctx).DocumentCount)
	})
	if err != nil {
		return err
	}
	defer w.Close()

	out.Statusf("👀", "watching %s (Ctrl-C to stop)", cfg.Profile.Path)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sig:
	case <-cmd.Context().Done():
	}

	out.Newline()
	out.Success("stopped")
	return nil
}
