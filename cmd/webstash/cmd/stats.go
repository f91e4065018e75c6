package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/webstash/webstash/internal/output"
)

func newStatsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index statistics",
		Long:  `Display document count and serialized index size.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func runStats(cmd *cobra.Command, jsonOutput bool) error {
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

	stats := eng.Stats(cmd.Context())
	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
	}
	output.ForWriter(cmd.OutOrStdout()).Stats(stats)
	return nil
}
