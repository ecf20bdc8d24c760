package keybackend

import "errors"

var (
	// ErrUserNotFound is returned when the username does not exist in the store.
	ErrUserNotFound = errors.New("user not found")
	// ErrPasswordMismatch is returned when the password does not match the stored hash.
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrInvalidUser is returned when a configured user has no name or no password.
	ErrInvalidUser = errors.New("invalid user entry")
)
