package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/clientcli"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check basic auth credentials",
	Long: `Call /login with the configured username and password.

Exits non-zero unless the server answers 200.

Examples:
  testbed-cli login -u admin --password password
  TESTBED_USERNAME=user TESTBED_PASSWORD=hunter1 testbed-cli login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.Login(cmd.Context())
	if err != nil {
		return reportError(err)
	}

	if err := getFormatter().FormatResult(os.Stdout, result); err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("login: %w: %d", clientcli.ErrUnexpectedStatus, result.Status)
	}
	return nil
}
