package config

import (
	"strings"

	"github.com/marmos91/authbridge/internal/telemetry"
)

// Default role markers printed on the group line of the success report.
const (
	DefaultAdminMarker = "system-admin"
	DefaultUserMarker  = "system-users"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with defaults; explicit values are preserved.
// Backend sections are defaulted even when not selected so that
// GetDefaultConfig produces a complete sample.
func ApplyDefaults(cfg *Config) {
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))

	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyRolesDefaults(&cfg.Roles)
	cfg.Metrics.ApplyDefaults()
	cfg.Flow.ApplyDefaults()
	cfg.Directory.ApplyDefaults()
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "WARN"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	cfg.Format = strings.ToLower(cfg.Format)

	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
func applyTelemetryDefaults(cfg *telemetry.Config) {
	defaults := telemetry.DefaultConfig()

	if cfg.ServiceName == "" {
		cfg.ServiceName = defaults.ServiceName
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = defaults.ServiceVersion
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaults.SampleRate
	}
}

// applyRolesDefaults sets the role markers.
func applyRolesDefaults(cfg *RolesConfig) {
	if cfg.AdminMarker == "" {
		cfg.AdminMarker = DefaultAdminMarker
	}
	if cfg.UserMarker == "" {
		cfg.UserMarker = DefaultUserMarker
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
// It selects the directory backend with placeholder connection settings.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Backend: BackendDirectory,
	}
	cfg.Telemetry.Insecure = true
	cfg.Flow.BaseURL = "https://auth.example.com"
	cfg.Flow.FlowSlug = "default-authentication-flow"
	cfg.Directory.URL = "ldaps://ldap.example.com:636"
	cfg.Directory.BindDN = "cn=svc,dc=example,dc=com"
	cfg.Directory.BindPassword = "changeme"
	cfg.Directory.UserBaseDN = "ou=users,dc=example,dc=com"

	ApplyDefaults(cfg)
	return cfg
}
