package cmd

import (
	"github.com/spf13/cobra"

	"github.com/webstash/webstash/internal/output"
)

func newClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset the index and wipe persisted data",
		Long: `Reset the search index to empty and delete every persisted artifact
from the storage backend. Browser data itself is never touched; the
next 'webstash index' rebuilds everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation")
	return cmd
}

func runClear(cmd *cobra.Command, force bool) error {
	out := output.ForWriter(cmd.OutOrStdout())
	if !force {
		out.Warning("this deletes the index and all persisted data; re-run with --force to confirm")
		return nil
	}

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

	if err := eng.Clear(cmd.Context()); err != nil {
		return err
	}
	out.Success("index cleared")
	return nil
}
