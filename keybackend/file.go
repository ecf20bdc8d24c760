package keybackend

import (
	"encoding/json"
	"fmt"
	"os"
)

// User is a configured basic-auth user. Exactly one of Password or
// PasswordHash is expected; PasswordHash wins when both are set.
type User struct {
	Username     string `json:"username" mapstructure:"username" yaml:"username"`
	Password     string `json:"password,omitempty" mapstructure:"password" yaml:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty" mapstructure:"password_hash" yaml:"password_hash,omitempty"`
}

// LoadUsersFromFile loads users from a JSON file.
// The file should contain an array of users:
//
//	[
//	  {"username": "admin", "password": "password"},
//	  {"username": "ops", "password_hash": "$2a$10$..."}
//	]
//
// Entries without a username are skipped.
func LoadUsersFromFile(path string) ([]User, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}

	var users []User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse users file: %w", err)
	}

	out := users[:0]
	for _, u := range users {
		if u.Username != "" {
			out = append(out, u)
		}
	}

	return out, nil
}
