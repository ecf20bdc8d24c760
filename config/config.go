package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	testbedhttp "github.com/sagarc03/testbed/http"
	"github.com/sagarc03/testbed/keybackend"
	"github.com/sagarc03/testbed/ratelimit"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for testbed.
type Config struct {
	Env       string                 `mapstructure:"env" yaml:"env" validate:"omitempty,oneof=dev development prod production"`
	Server    ServerConfig           `mapstructure:"server" yaml:"server"`
	Static    StaticConfig           `mapstructure:"static" yaml:"static"`
	Templates TemplatesConfig        `mapstructure:"templates" yaml:"templates"`
	Auth      AuthConfig             `mapstructure:"auth" yaml:"auth"`
	RateLimit RateLimitConfig        `mapstructure:"ratelimit" yaml:"ratelimit"`
	CORS      testbedhttp.CORSConfig `mapstructure:"cors" yaml:"cors"`
	Log       LogConfig              `mapstructure:"log" yaml:"log"`
}

// IsProduction reports whether Env names a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`
	Debug           bool   `mapstructure:"debug" yaml:"debug"`
	TrustProxy      bool   `mapstructure:"trust_proxy" yaml:"trust_proxy"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"min=1"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StaticConfig holds the static asset root configuration.
type StaticConfig struct {
	Path        string `mapstructure:"path" yaml:"path" validate:"required"`
	DefaultFile string `mapstructure:"default_file" yaml:"default_file" validate:"required"`
}

// TemplatesConfig holds template configuration. An empty Path uses the
// templates compiled into the binary.
type TemplatesConfig struct {
	Path  string `mapstructure:"path" yaml:"path,omitempty"`
	Index string `mapstructure:"index" yaml:"index" validate:"required"`
}

// AuthConfig holds basic auth configuration.
type AuthConfig struct {
	Realm string                 `mapstructure:"realm" yaml:"realm" validate:"required"`
	Users keybackend.UsersConfig `mapstructure:"users" yaml:"users"`
}

// RateLimitConfig holds rate limit policies in "<count> per <period>" notation.
type RateLimitConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	Default []string `mapstructure:"default" yaml:"default" validate:"dive,ratelimit"`
	Route   string   `mapstructure:"route" yaml:"route" validate:"omitempty,ratelimit"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"host":           "server.host",
	"port":           "server.port",
	"debug":          "server.debug",
	"static-path":    "static.path",
	"templates-path": "templates.path",
	"users-file":     "auth.users.file",
	"log-level":      "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5050)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.shutdown_timeout", 30) // seconds

	v.SetDefault("static.path", "./static")
	v.SetDefault("static.default_file", "img/sand.jpg")

	v.SetDefault("templates.path", "")
	v.SetDefault("templates.index", "index.html")

	v.SetDefault("auth.realm", testbedhttp.DefaultRealm)
	defaultUsers := make([]map[string]any, 0, 2)
	for _, u := range keybackend.DefaultUsers() {
		defaultUsers = append(defaultUsers, map[string]any{"username": u.Username, "password": u.Password})
	}
	v.SetDefault("auth.users.inline", defaultUsers)
	v.SetDefault("auth.users.file", "")
	v.SetDefault("auth.users.hash_cost", 10)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.default", []string{"2000 per day", "2000 per hour"})
	v.SetDefault("ratelimit.route", "10 per minute")

	v.SetDefault("cors.enabled", false)

	v.SetDefault("log.level", "info")
}

// newValidator returns a validator that also understands the "ratelimit" tag.
func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("ratelimit", func(fl validator.FieldLevel) bool {
		_, err := ratelimit.ParsePolicy(fl.Field().String())
		return err == nil
	})
	return validate
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("TESTBED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	if err := newValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file, env or flag overrides
// anything.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}
