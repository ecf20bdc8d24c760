package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/clientcli"
)

var getOutput string

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Fetch a path from the server",
	Long: `Send a GET request to path and print the response.

Use --output to save the body to a file, e.g. for /file.

Examples:
  testbed-cli get /html
  testbed-cli get /file -o sand.jpg
  testbed-cli get /file/img/sand.jpg -o -
  testbed-cli get /rate_limit`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "POST /test",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := getClient()
		if err != nil {
			return err
		}
		result, err := client.Ping(cmd.Context())
		if err != nil {
			return reportError(err)
		}
		return getFormatter().FormatResult(os.Stdout, result)
	},
}

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", `write body to file ("-" for stdout)`)
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	opts := clientcli.GetOptions{Path: args[0]}
	switch getOutput {
	case "":
	case "-":
		opts.Output = os.Stdout
	default:
		f, err := os.Create(getOutput) //#nosec G304 -- path is user-provided output file
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		opts.Output = f
	}

	result, err := client.Get(cmd.Context(), opts)
	if err != nil {
		return reportError(err)
	}

	// Keep stdout clean when the body itself went there.
	out := os.Stdout
	if getOutput == "-" {
		out = os.Stderr
	}
	return getFormatter().FormatResult(out, result)
}
