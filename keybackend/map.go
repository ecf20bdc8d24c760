// Package keybackend provides the credential store used for HTTP basic auth.
//
// Passwords are kept only as salted bcrypt hashes. The store is built once at
// startup and is read-only afterwards, so it can be shared between requests
// without locking.
package keybackend

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sagarc03/testbed"
)

// dummyPassword is hashed once per store and compared against when a username
// is unknown, so both failure paths pay for one bcrypt comparison.
const dummyPassword = "testbed-dummy-password"

// HashStore verifies username and password pairs against bcrypt hashes.
type HashStore struct {
	hashes map[string][]byte
	dummy  []byte
}

// NewHashStore creates a store from precomputed bcrypt hashes.
// Every hash must be a well-formed bcrypt hash.
func NewHashStore(hashes map[string][]byte) (*HashStore, error) {
	cost := bcrypt.DefaultCost
	copied := make(map[string][]byte, len(hashes))

	for username, hash := range hashes {
		c, err := bcrypt.Cost(hash)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", username, err)
		}
		cost = c
		copied[username] = hash
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &HashStore{hashes: copied, dummy: dummy}, nil
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify checks the password for username. The returned error wraps
// testbed.ErrUnauthorized together with ErrUserNotFound or ErrPasswordMismatch.
func (s *HashStore) Verify(username, password string) error {
	hash, found := s.hashes[username]
	if !found {
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		return fmt.Errorf("%w: %w", ErrUserNotFound, testbed.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return fmt.Errorf("%w: %w", ErrPasswordMismatch, testbed.ErrUnauthorized)
	}

	return nil
}

// Len returns the number of users in the store.
func (s *HashStore) Len() int {
	return len(s.hashes)
}
