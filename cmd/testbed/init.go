package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sagarc03/testbed/config"
	testbedhttp "github.com/sagarc03/testbed/http"
	"github.com/sagarc03/testbed/keybackend"
)

var errScaffoldExists = errors.New("file already exists")

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter config, static root and templates",
	Long: `Create config.yaml, a static directory and a templates directory in dir
(default: current directory). Default user passwords are stored as bcrypt
hashes. Existing files are left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing files")

	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	force, _ := cmd.Flags().GetBool("force")

	written, err := writeScaffold(dir, force)
	for _, name := range written {
		slog.Info("wrote file", "path", name)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized testbed in %s\nRun: testbed serve --config %s\n",
		dir, filepath.Join(dir, "config.yaml"))
	return nil
}

// writeScaffold creates the starter layout under dir and returns the files it
// wrote. Without force it stops at the first file that already exists.
func writeScaffold(dir string, force bool) ([]string, error) {
	cfg, err := scaffoldConfig()
	if err != nil {
		return nil, err
	}
	cfg.Static.Path = "./static"
	cfg.Templates.Path = "./templates"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	var written []string
	write := func(rel string, content []byte) error {
		path := filepath.Join(dir, rel)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s: %w", path, errScaffoldExists)
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
		if err := os.WriteFile(path, content, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write("config.yaml", data); err != nil {
		return written, err
	}

	templates := testbedhttp.DefaultTemplates()
	err = fs.WalkDir(templates, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := fs.ReadFile(templates, p)
		if err != nil {
			return err
		}
		return write(filepath.Join("templates", p), content)
	})
	if err != nil {
		return written, err
	}

	if err := os.MkdirAll(filepath.Join(dir, "static", filepath.Dir(cfg.Static.DefaultFile)), 0o750); err != nil {
		return written, fmt.Errorf("create static directory: %w", err)
	}

	return written, nil
}

// scaffoldConfig returns the default configuration with every inline password
// replaced by its bcrypt hash.
func scaffoldConfig() (*config.Config, error) {
	cfg := config.Default()

	users := make([]keybackend.User, 0, len(cfg.Auth.Users.Inline))
	for _, u := range cfg.Auth.Users.Inline {
		if u.Password != "" {
			hash, err := keybackend.HashPassword(u.Password, cfg.Auth.Users.HashCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for %q: %w", u.Username, err)
			}
			u = keybackend.User{Username: u.Username, PasswordHash: string(hash)}
		}
		users = append(users, u)
	}
	cfg.Auth.Users.Inline = users

	return cfg, nil
}
