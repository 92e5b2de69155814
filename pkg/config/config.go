package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/marmos91/authbridge/internal/telemetry"
	"github.com/marmos91/authbridge/pkg/auth/directory"
	"github.com/marmos91/authbridge/pkg/auth/flow"
	"github.com/marmos91/authbridge/pkg/metrics"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "config.toml"

// EnvPrefix prefixes every environment override, e.g.
// AUTHBRIDGE_DIRECTORY_BIND_PASSWORD.
const EnvPrefix = "AUTHBRIDGE"

// Backend names.
const (
	BackendFlow      = "flow"
	BackendDirectory = "directory"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config represents the authbridge configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (AUTHBRIDGE_*)
//  2. Configuration file (TOML, or YAML by extension)
//  3. Default values
//
// Only the section named by Backend is validated; the other may be absent.
type Config struct {
	// Backend selects the authentication backend: "flow" or "directory".
	Backend string `mapstructure:"backend" validate:"required,oneof=flow directory" yaml:"backend"`

	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Telemetry controls OpenTelemetry distributed tracing
	Telemetry telemetry.Config `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics configures the optional Pushgateway target
	Metrics metrics.Config `mapstructure:"metrics" yaml:"metrics"`

	// Roles maps directory or flow groups to role tiers
	Roles RolesConfig `mapstructure:"roles" yaml:"roles"`

	// Flow configures the flow challenge backend
	Flow flow.Config `mapstructure:"flow" validate:"-" yaml:"flow"`

	// Directory configures the directory bind backend
	Directory directory.Config `mapstructure:"directory" validate:"-" yaml:"directory"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output before verbosity flags apply
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error" yaml:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output specifies where logs are written: stderr or a file path.
	// stdout is reserved for the authentication report.
	Output string `mapstructure:"output" validate:"required,ne=stdout" yaml:"output"`
}

// RolesConfig holds the role groups and the markers printed for each tier.
type RolesConfig struct {
	// AdminGroup grants the admin tier. Empty disables it.
	AdminGroup string `mapstructure:"admin_group" yaml:"admin_group"`

	// UserGroup grants the user tier. Empty disables it.
	UserGroup string `mapstructure:"user_group" yaml:"user_group"`

	// AdminMarker is printed as the group line for admins.
	// Default: "system-admin"
	AdminMarker string `mapstructure:"admin_marker" validate:"required" yaml:"admin_marker"`

	// UserMarker is printed as the group line for users.
	// Default: "system-users"
	UserMarker string `mapstructure:"user_marker" validate:"required" yaml:"user_marker"`
}

// Load loads configuration from file, environment, and defaults.
//
// The file must exist. configPath may start with "~" and may be relative to
// the working directory.
func Load(configPath string) (*Config, error) {
	path, err := ResolvePath(configPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}

	v := viper.New()
	setupViper(v, path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration with helpful error messages.
func MustLoad(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := Load(configPath)
	if errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%w\n\n"+
			"Create a TOML configuration file, for example:\n"+
			"  backend = \"directory\"\n\n"+
			"  [directory]\n"+
			"  url = \"ldaps://ldap.example.com:636\"\n\n"+
			"Or specify a custom config file:\n"+
			"  authbridge --config /path/to/config.toml <username> <password>",
			err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// ResolvePath expands a leading "~" to the home directory and makes the
// path absolute against the working directory.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand %q: %w", path, err)
		}
		path = filepath.Join(home, path[1:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	return abs, nil
}

// setupViper configures viper with environment variables and the config file.
func setupViper(v *viper.Viper, path string) {
	// Example: AUTHBRIDGE_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, reflect.TypeOf(Config{}), "")

	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	default:
		v.SetConfigType("toml")
	}
}

// bindEnvs registers every mapstructure key with viper so that environment
// overrides apply even when the key is absent from the file.
func bindEnvs(v *viper.Viper, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Duration(0)) {
			bindEnvs(v, field.Type, key)
			continue
		}
		_ = v.BindEnv(key)
	}
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		durationDecodeHook(),
	)
}

// durationDecodeHook returns a mapstructure decode hook that converts strings
// and numbers to time.Duration. Strings use Go duration syntax ("10s", "1m");
// bare numbers, including numeric strings from the environment, are seconds.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if secs, err := strconv.ParseFloat(v, 64); err == nil {
				return seconds(secs), nil
			}
			return time.ParseDuration(v)
		case int:
			return seconds(float64(v)), nil
		case int64:
			return seconds(float64(v)), nil
		case float64:
			return seconds(v), nil
		default:
			return data, nil
		}
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
