package clientcli

import "errors"

// ErrProfileNotFound is returned when a named profile is not in the file.
var ErrProfileNotFound = errors.New("profile not found")

// Errors for configuration validation.
var (
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrConfigRequired   = errors.New("config is required")
)

// Errors for input validation.
var (
	ErrEmptyPath    = errors.New("path is required")
	ErrInvalidCount = errors.New("count must be positive")
)

// ErrUnexpectedStatus is returned by commands that expect a particular status
// and got another one.
var ErrUnexpectedStatus = errors.New("unexpected status")
