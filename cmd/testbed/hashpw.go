package main

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/testbed/config"
	"github.com/sagarc03/testbed/keybackend"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash of a password",
	Long: `Print a bcrypt hash suitable for the password_hash field of a user entry.
Without an argument the password is read from a masked prompt.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().Int("cost", 0, "bcrypt cost (default: auth.users.hash_cost)")

	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	cost, _ := cmd.Flags().GetInt("cost")
	if cost == 0 {
		cfg, err := config.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		cost = cfg.Auth.Users.HashCost
	}

	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		prompt := promptui.Prompt{
			Label: "Password",
			Mask:  '*',
			Validate: func(s string) error {
				if s == "" {
					return errors.New("password cannot be empty")
				}
				return nil
			},
		}
		var err error
		password, err = prompt.Run()
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	hash, err := keybackend.HashPassword(password, cost)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
	return nil
}
