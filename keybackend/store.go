package keybackend

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// UsersConfig holds configuration for loading basic-auth users.
type UsersConfig struct {
	Inline   []User `mapstructure:"inline" yaml:"inline"`                            // Inline users from config
	File     string `mapstructure:"file" yaml:"file,omitempty"`                      // Path to JSON file containing users
	HashCost int    `mapstructure:"hash_cost" yaml:"hash_cost" validate:"min=4,max=31"` // bcrypt cost for plaintext passwords
}

// DefaultUsers are the users available when nothing else is configured.
func DefaultUsers() []User {
	return []User{
		{Username: "admin", Password: "password"},
		{Username: "user", Password: "hunter1"},
	}
}

// NewCredentialStore creates a HashStore from the given configuration.
// It loads users from both inline config and file (if specified), merging them
// into a single store. File users take precedence over inline users with the
// same name. Plaintext passwords are hashed here and then discarded.
func NewCredentialStore(cfg UsersConfig) (*HashStore, error) {
	users := make(map[string]User)

	for _, u := range cfg.Inline {
		users[u.Username] = u
	}

	if cfg.File != "" {
		fileUsers, err := LoadUsersFromFile(cfg.File)
		if err != nil {
			return nil, err
		}
		for _, u := range fileUsers {
			users[u.Username] = u
		}
	}

	cost := cfg.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	hashes := make(map[string][]byte, len(users))
	for name, u := range users {
		if name == "" {
			return nil, fmt.Errorf("empty username: %w", ErrInvalidUser)
		}

		switch {
		case u.PasswordHash != "":
			hashes[name] = []byte(u.PasswordHash)
		case u.Password != "":
			hash, err := HashPassword(u.Password, cost)
			if err != nil {
				return nil, fmt.Errorf("user %q: %w", name, err)
			}
			hashes[name] = hash
		default:
			return nil, fmt.Errorf("user %q has no password: %w", name, ErrInvalidUser)
		}
	}

	return NewHashStore(hashes)
}
