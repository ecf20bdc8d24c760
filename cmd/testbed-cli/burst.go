package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/clientcli"
)

var (
	burstCount       int
	burstConcurrency int
	burstMethod      string
)

var burstCmd = &cobra.Command{
	Use:   "burst [path]",
	Short: "Send many requests and tally the statuses",
	Long: `Send --count requests to path and print how many came back with each
status, plus the index of the first 429.

Path, count and concurrency default to the profile's burst settings (see
'testbed-cli configure set'), falling back to 15 requests to /rate_limit.

Examples:
  testbed-cli burst
  testbed-cli burst -n 2100 -j 16 /html
  testbed-cli burst -X POST /test`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBurst,
}

func init() {
	burstCmd.Flags().IntVarP(&burstCount, "count", "n", clientcli.DefaultBurstCount, "number of requests")
	burstCmd.Flags().IntVarP(&burstConcurrency, "concurrency", "j", 1, "requests in flight at once")
	burstCmd.Flags().StringVarP(&burstMethod, "method", "X", http.MethodGet, "HTTP method")
}

func runBurst(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts, err := burstOptions(cmd, args)
	if err != nil {
		return err
	}

	result, err := client.Burst(cmd.Context(), opts)
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatBurst(os.Stdout, result)
}

// burstOptions starts from the profile's burst and applies whatever was given
// on the command line.
func burstOptions(cmd *cobra.Command, args []string) (clientcli.BurstOptions, error) {
	p, err := resolveProfile()
	if err != nil {
		return clientcli.BurstOptions{}, err
	}

	opts := p.Burst()
	opts.Method = strings.ToUpper(burstMethod)
	if len(args) == 1 {
		opts.Path = args[0]
	}
	if cmd.Flags().Changed("count") {
		opts.Count = burstCount
	}
	if cmd.Flags().Changed("concurrency") {
		opts.Concurrency = burstConcurrency
	}
	return opts, nil
}
