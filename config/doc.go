// Package config provides configuration loading and validation for testbed.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (TESTBED_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with TESTBED_ prefix:
//   - server.port → TESTBED_SERVER_PORT
//   - static.path → TESTBED_STATIC_PATH
//   - ratelimit.route → TESTBED_RATELIMIT_ROUTE
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Rate limits must parse as "<count> per <period>"
//   - bcrypt hash cost must be 4-31
//   - Log level must be debug, info, warn, or error
package config
