package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zgpcy/azure-spend-exporter/internal/collector"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one scrape and print the exposition text",
	Long: `Run a single cost query with the same configuration as the server and
print what /metrics would return. Exits non-zero when the query fails.`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

// errScrapeFailed signals a failure already printed to stdout
var errScrapeFailed = errors.New("scrape failed")

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	_, _, costCollector, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	res := costCollector.Scrape(cmd.Context())
	out := cmd.OutOrStdout()

	if res.Outcome == collector.OutcomeFailure {
		fmt.Fprintf(out, "Error: %s\n", res.Err)
		return errScrapeFailed
	}
	return collector.Encode(out, res)
}
