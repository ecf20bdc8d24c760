package testbed

import "errors"

var (
	// ErrNotFound is returned when a requested asset does not exist or lies outside the static root
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when credentials are missing or invalid
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is returned when a client exceeds a request limit
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrInvalidFailureRequest is returned when /fail parameters cannot be turned into a response
	ErrInvalidFailureRequest = errors.New("invalid failure request")
)
