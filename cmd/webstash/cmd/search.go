package cmd

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webstash/webstash/internal/output"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	limit       int
	jsonOutput  bool
	showContext bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search indexed browser data",
		Long: `Search bookmarks, history, and the reading list.

Listing phrases ("list all my bookmarks", "列出所有书签") enumerate by
recency; anything else runs a keyword search with heuristic ranking.

Examples:
  webstash search "react tutorial"
  webstash search "机器学习" --limit 5
  webstash search "list all my bookmarks"
  webstash search "golang generics" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (0 = config default)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&opts.showContext, "context", false, "Print the assembled context payload instead of raw results")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
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

	slog.Info("search_started",
		slog.String("query", query),
		slog.Int("limit", opts.limit))

	results, err := eng.Search(cmd.Context(), query, opts.limit)
	if err != nil {
		return err
	}

	out := output.ForWriter(cmd.OutOrStdout())

	if opts.showContext {
		items := eng.BuildContext(results)
		if opts.jsonOutput {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(items)
		}
		out.Context(items)
		return nil
	}

	if opts.jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
	}
	out.Results(results)
	return nil
}
