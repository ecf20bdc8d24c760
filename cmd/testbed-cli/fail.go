package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/clientcli"
)

var (
	failMessage   string
	failNoMessage bool
	failServer    bool
)

var failCmd = &cobra.Command{
	Use:   "fail [status]",
	Short: "Ask the server for a specific failure",
	Long: `Call /fail?error=<status>&msg=<message> and print the response.

The server answers 500 "Server Error" when status is not a valid code.
With --server-error, /fail500 is called instead and status is ignored.

Examples:
  testbed-cli fail 404 -m "not here"
  testbed-cli fail 503 --no-message
  testbed-cli fail abc
  testbed-cli fail --server-error`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFail,
}

func init() {
	failCmd.Flags().StringVarP(&failMessage, "message", "m", "", "response body to ask for")
	failCmd.Flags().BoolVar(&failNoMessage, "no-message", false, "leave msg out of the query")
	failCmd.Flags().BoolVar(&failServer, "server-error", false, "call /fail500")
}

func runFail(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	var result *clientcli.Result
	if failServer {
		result, err = client.Fail500(cmd.Context())
	} else {
		opts := clientcli.FailOptions{Message: failMessage, NoMessage: failNoMessage}
		if len(args) == 1 {
			opts.Status = args[0]
		}
		result, err = client.Fail(cmd.Context(), opts)
	}
	if err != nil {
		return reportError(err)
	}

	return getFormatter().FormatResult(os.Stdout, result)
}
