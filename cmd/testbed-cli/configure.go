package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/clientcli"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Manage server profiles",
	Long: `Manage the servers testbed-cli talks to.

A profile stores an endpoint, the basic auth credentials /login expects and
the burst that 'testbed-cli burst' fires when given no flags. Profiles live in
~/.testbed/config.yaml (override with --config or TESTBED_CLI_CONFIG).`,
}

var configureSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a profile",
	Long: `Create or update a profile from the global connection flags and the
burst flags below. Fields not given keep their current value.

When --username is given without --password, the password is prompted for.

Examples:
  testbed-cli configure set local -e http://localhost:5050 -u admin
  testbed-cli configure set staging -e https://testbed.internal --burst-count 2100 --burst-concurrency 32 --use`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigureSet,
}

var configureUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile current",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigureUse,
}

var configureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runConfigureList,
}

var configureDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Args:    cobra.ExactArgs(1),
	RunE:    runConfigureDelete,
}

var (
	setBurstPath        string
	setBurstCount       int
	setBurstConcurrency int
	setUse              bool
	showSecrets         bool
)

func init() {
	configureCmd.AddCommand(configureSetCmd, configureUseCmd, configureListCmd, configureDeleteCmd)

	configureSetCmd.Flags().StringVar(&setBurstPath, "burst-path", "", "default burst path (default: "+clientcli.DefaultBurstPath+")")
	configureSetCmd.Flags().IntVar(&setBurstCount, "burst-count", 0, fmt.Sprintf("default burst size (default: %d)", clientcli.DefaultBurstCount))
	configureSetCmd.Flags().IntVar(&setBurstConcurrency, "burst-concurrency", 0, "default requests in flight during a burst (default: 1)")
	configureSetCmd.Flags().BoolVar(&setUse, "use", false, "make this the current profile")

	configureListCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show passwords")
}

// loadProfiles reads the profile file, treating a missing file as empty.
func loadProfiles() (*clientcli.Profiles, error) {
	ps, err := clientcli.LoadProfiles(getConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return &clientcli.Profiles{}, nil
	}
	return ps, err
}

func runConfigureSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	ps, err := loadProfiles()
	if err != nil {
		return err
	}

	p, err := ps.Lookup(name)
	if err != nil && !errors.Is(err, clientcli.ErrProfileNotFound) {
		return err
	}

	if endpoint != "" {
		if err := validateEndpoint(endpoint); err != nil {
			return err
		}
		p.Endpoint = strings.TrimSuffix(endpoint, "/")
	}
	if p.Endpoint == "" {
		p.Endpoint = clientcli.DefaultEndpoint
	}

	if username != "" {
		p.Username = username
		p.Password = password
		if p.Password == "" {
			prompt := promptui.Prompt{Label: "Password for " + username, Mask: '*'}
			if p.Password, err = prompt.Run(); err != nil {
				return fmt.Errorf("read password: %w", err)
			}
		}
	} else if password != "" {
		p.Password = password
	}

	flags := cmd.Flags()
	if flags.Changed("burst-path") {
		p.BurstPath = setBurstPath
	}
	if flags.Changed("burst-count") {
		p.BurstCount = setBurstCount
	}
	if flags.Changed("burst-concurrency") {
		p.BurstConcurrency = setBurstConcurrency
	}

	ps.Put(name, p)
	if setUse {
		ps.Current = name
	}

	if err := ps.Save(getConfigPath()); err != nil {
		return err
	}

	fmt.Printf("Profile '%s' saved.\n", name)
	return nil
}

func runConfigureUse(_ *cobra.Command, args []string) error {
	ps, err := loadProfiles()
	if err != nil {
		return err
	}
	if err := ps.Use(args[0]); err != nil {
		return err
	}
	return ps.Save(getConfigPath())
}

func runConfigureList(_ *cobra.Command, _ []string) error {
	ps, err := loadProfiles()
	if err != nil {
		return err
	}
	return getFormatter().FormatProfiles(os.Stdout, ps, showSecrets)
}

func runConfigureDelete(_ *cobra.Command, args []string) error {
	ps, err := loadProfiles()
	if err != nil {
		return err
	}
	if err := ps.Delete(args[0]); err != nil {
		return err
	}
	return ps.Save(getConfigPath())
}

func validateEndpoint(input string) error {
	u, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q must start with http:// or https://", input)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", input)
	}
	return nil
}
