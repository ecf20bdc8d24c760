package clientcli

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:5050"

// Burst shape used when neither the profile nor the command line picks one.
// Fifteen requests trip the server's ten-per-minute /rate_limit policy with
// room to spare.
const (
	DefaultBurstPath  = "/rate_limit"
	DefaultBurstCount = 15
)

// Profile is one testbed server: where it lives, the credentials its /login
// accepts, and the burst the CLI fires at it by default.
type Profile struct {
	Endpoint string `yaml:"endpoint"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	BurstPath        string `yaml:"burst_path,omitempty"`
	BurstCount       int    `yaml:"burst_count,omitempty"`
	BurstConcurrency int    `yaml:"burst_concurrency,omitempty"`
}

// Config returns the connection part of the profile.
func (p Profile) Config() *Config {
	return &Config{Endpoint: p.Endpoint, Username: p.Username, Password: p.Password}
}

// Burst returns the profile's burst with DefaultBurstPath, DefaultBurstCount
// and a concurrency of one filled in where the profile leaves them unset.
func (p Profile) Burst() BurstOptions {
	opts := BurstOptions{Path: p.BurstPath, Count: p.BurstCount, Concurrency: p.BurstConcurrency}
	if opts.Path == "" {
		opts.Path = DefaultBurstPath
	}
	if opts.Count <= 0 {
		opts.Count = DefaultBurstCount
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return opts
}

// Profiles is the profile file: servers keyed by name plus the one used
// when no name is given.
type Profiles struct {
	Current string             `yaml:"current,omitempty"`
	Servers map[string]Profile `yaml:"servers,omitempty"`
}

// Lookup returns the named profile. An empty name selects Current, and a file
// without a current profile yields the zero Profile.
func (ps *Profiles) Lookup(name string) (Profile, error) {
	if name == "" {
		if ps.Current == "" {
			return Profile{}, nil
		}
		name = ps.Current
	}
	p, ok := ps.Servers[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// Put stores p under name, replacing any previous profile of that name. The
// first profile stored becomes current.
func (ps *Profiles) Put(name string, p Profile) {
	if ps.Servers == nil {
		ps.Servers = make(map[string]Profile)
	}
	ps.Servers[name] = p
	if ps.Current == "" {
		ps.Current = name
	}
}

// Use makes name the current profile.
func (ps *Profiles) Use(name string) error {
	if _, ok := ps.Servers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	ps.Current = name
	return nil
}

// Delete removes name. Deleting the current profile leaves none current.
func (ps *Profiles) Delete(name string) error {
	if _, ok := ps.Servers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(ps.Servers, name)
	if ps.Current == name {
		ps.Current = ""
	}
	return nil
}

// Names returns the profile names in sorted order.
func (ps *Profiles) Names() []string {
	return slices.Sorted(maps.Keys(ps.Servers))
}

// LoadProfiles reads the profile file at path. A missing file is reported
// with an error wrapping os.ErrNotExist.
func LoadProfiles(path string) (*Profiles, error) {
	data, err := os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided config file
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var ps Profiles
	if err := yaml.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}
	return &ps, nil
}

// Save writes the file to path with owner-only permissions, since profiles
// may hold passwords.
func (ps *Profiles) Save(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	data, err := yaml.Marshal(ps)
	if err != nil {
		return fmt.Errorf("marshal profiles: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

// DefaultProfilesPath returns ~/.testbed/config.yaml, or "" when the home
// directory is unknown.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".testbed", "config.yaml")
}

// Env is the TESTBED_* environment the CLI reads.
type Env struct {
	ProfilesPath string // TESTBED_CLI_CONFIG
	Profile      string // TESTBED_PROFILE
	Config              // TESTBED_ENDPOINT, TESTBED_USERNAME, TESTBED_PASSWORD
}

// LookupEnv reads Env from the process environment.
func LookupEnv() Env {
	return Env{
		ProfilesPath: os.Getenv("TESTBED_CLI_CONFIG"),
		Profile:      os.Getenv("TESTBED_PROFILE"),
		Config: Config{
			Endpoint: os.Getenv("TESTBED_ENDPOINT"),
			Username: os.Getenv("TESTBED_USERNAME"),
			Password: os.Getenv("TESTBED_PASSWORD"),
		},
	}
}

// Config holds the connection settings a Client needs.
type Config struct {
	Endpoint string
	Username string
	Password string
}

// WithDefaults returns a copy of the config with DefaultEndpoint filled in.
func (c *Config) WithDefaults() *Config {
	cfg := *c
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &cfg
}

// Override returns a copy of c with every non-empty field of o applied.
func (c *Config) Override(o *Config) *Config {
	cfg := *c
	if o == nil {
		return &cfg
	}
	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	if o.Username != "" {
		cfg.Username = o.Username
	}
	if o.Password != "" {
		cfg.Password = o.Password
	}
	return &cfg
}

// ValidateWithAuth checks that basic auth credentials are set.
func (c *Config) ValidateWithAuth() error {
	if c.Username == "" {
		return ErrUsernameRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}
