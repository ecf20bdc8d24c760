package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	profile    string
	endpoint   string
	username   string
	password   string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "testbed-cli",
	Version: version,
	Short:   "Client for exercising a testbed server",
	Long: `testbed-cli - drive a testbed server from the terminal

Commands:
  - login:     check basic auth credentials against /login
  - get:       fetch any path, e.g. /html, /file or /file/img/sand.jpg
  - ping:      POST /test
  - fail:      request a status and body from /fail, or /fail500
  - burst:     fire many requests and tally the statuses (rate limit testing)
  - configure: manage server profiles`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.testbed/config.yaml, env: TESTBED_CLI_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: TESTBED_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:5050, env: TESTBED_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "basic auth username (env: TESTBED_USERNAME)")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "basic auth password (env: TESTBED_PASSWORD)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "print only response bodies")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(failCmd)
	rootCmd.AddCommand(burstCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the profile file path from flag, env or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.LookupEnv().ProfilesPath; p != "" {
		return p
	}
	return clientcli.DefaultProfilesPath()
}

// resolveProfile returns the profile picked by --profile, TESTBED_PROFILE or
// the file's current profile. A missing default file yields the zero Profile;
// a missing file that was asked for by path or profile name is an error.
func resolveProfile() (clientcli.Profile, error) {
	env := clientcli.LookupEnv()
	name := profile
	if name == "" {
		name = env.Profile
	}

	path := getConfigPath()
	if path == "" {
		return clientcli.Profile{}, nil
	}

	ps, err := clientcli.LoadProfiles(path)
	if err != nil {
		explicit := cfgFile != "" || env.ProfilesPath != "" || name != ""
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return clientcli.Profile{}, nil
		}
		return clientcli.Profile{}, err
	}
	return ps.Lookup(name)
}

// buildConfig layers the profile, then env vars, then flags.
func buildConfig() (*clientcli.Config, error) {
	p, err := resolveProfile()
	if err != nil {
		return nil, err
	}

	env := clientcli.LookupEnv()
	return p.Config().
		Override(&env.Config).
		Override(&clientcli.Config{Endpoint: endpoint, Username: username, Password: password}), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// reportError prints err in the selected format and returns it for cobra.
func reportError(err error) error {
	_ = getFormatter().FormatError(os.Stderr, err)
	return err
}
