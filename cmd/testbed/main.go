package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "testbed",
	Short:   "HTTP test server for exploratory client testing",
	Long: `testbed is a small HTTP server exposing endpoints for manual and
exploratory testing: basic auth login, rate limiting, static files,
a rendered HTML page and failures on demand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")

		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path, repeat to merge several (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("static-path", "", "static asset directory (default: ./static, env: TESTBED_STATIC_PATH)")
	rootCmd.PersistentFlags().String("users-file", "", "JSON file with basic auth users (env: TESTBED_AUTH_USERS_FILE)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: TESTBED_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
