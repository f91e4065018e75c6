package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/webstash/webstash/configs"
	"github.com/webstash/webstash/internal/config"
	"github.com/webstash/webstash/internal/output"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write the annotated configuration template to ~/.webstash/config.yaml
(or the --config path). Existing files are left alone unless --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func runInit(cmd *cobra.Command, force bool) error {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	out := output.ForWriter(cmd.OutOrStdout())

	if _, err := os.Stat(path); err == nil && !force {
		out.Warningf("%s already exists; use --force to overwrite", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configs.ConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	out.Successf("wrote %s", path)
	out.Status("", "edit profile.path to point at your browser profile, then run 'webstash index'")
	return nil
}
