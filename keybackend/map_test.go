package keybackend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sagarc03/testbed"
	"github.com/sagarc03/testbed/keybackend"
)

func TestHashStore_Verify(t *testing.T) {
	t.Parallel()

	store := newStore(t, map[string]string{
		"admin": "password",
		"user":  "hunter1",
	})

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "admin with correct password", username: "admin", password: "password"},
		{name: "user with correct password", username: "user", password: "hunter1"},
		{name: "wrong password", username: "admin", password: "hunter1", wantErr: keybackend.ErrPasswordMismatch},
		{name: "empty password", username: "user", password: "", wantErr: keybackend.ErrPasswordMismatch},
		{name: "password case matters", username: "admin", password: "Password", wantErr: keybackend.ErrPasswordMismatch},
		{name: "unknown user", username: "root", password: "password", wantErr: keybackend.ErrUserNotFound},
		{name: "empty username", username: "", password: "", wantErr: keybackend.ErrUserNotFound},
		{name: "username case matters", username: "Admin", password: "password", wantErr: keybackend.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Verify(tt.username, tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, testbed.ErrUnauthorized)
		})
	}
}

func TestHashStore_StoresOnlyHashes(t *testing.T) {
	t.Parallel()

	hash, err := keybackend.HashPassword("hunter1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter1", string(hash))

	again, err := keybackend.HashPassword("hunter1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes should be salted")

	store, err := keybackend.NewHashStore(map[string][]byte{"user": hash})
	require.NoError(t, err)
	assert.NoError(t, store.Verify("user", "hunter1"))
	assert.Equal(t, 1, store.Len())
}

func TestNewHashStore_RejectsMalformedHash(t *testing.T) {
	t.Parallel()

	_, err := keybackend.NewHashStore(map[string][]byte{"admin": []byte("password")})
	assert.Error(t, err)
}

func TestNewHashStore_Empty(t *testing.T) {
	t.Parallel()

	store, err := keybackend.NewHashStore(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, store.Len())
	assert.ErrorIs(t, store.Verify("admin", "password"), keybackend.ErrUserNotFound)
}

func newStore(t *testing.T, passwords map[string]string) *keybackend.HashStore {
	t.Helper()

	hashes := make(map[string][]byte, len(passwords))
	for username, password := range passwords {
		hash, err := keybackend.HashPassword(password, bcrypt.MinCost)
		require.NoError(t, err)
		hashes[username] = hash
	}

	store, err := keybackend.NewHashStore(hashes)
	require.NoError(t, err)
	return store
}
