package config

import (
	"testing"
	"time"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected default log level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Roles(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Roles.AdminMarker != "system-admin" {
		t.Errorf("Expected admin marker 'system-admin', got %q", cfg.Roles.AdminMarker)
	}
	if cfg.Roles.UserMarker != "system-users" {
		t.Errorf("Expected user marker 'system-users', got %q", cfg.Roles.UserMarker)
	}
	if cfg.Roles.AdminGroup != "" || cfg.Roles.UserGroup != "" {
		t.Errorf("Expected no role groups by default, got %+v", cfg.Roles)
	}
}

func TestApplyDefaults_Backends(t *testing.T) {
	cfg := &Config{Backend: "  Directory "}
	ApplyDefaults(cfg)

	if cfg.Backend != BackendDirectory {
		t.Errorf("Expected backend normalized to %q, got %q", BackendDirectory, cfg.Backend)
	}
	if cfg.Flow.Timeout != 10*time.Second {
		t.Errorf("Expected default flow timeout 10s, got %v", cfg.Flow.Timeout)
	}
	if cfg.Directory.Timeout != 10*time.Second {
		t.Errorf("Expected default directory timeout 10s, got %v", cfg.Directory.Timeout)
	}
	if cfg.Metrics.Job != "authbridge" {
		t.Errorf("Expected default metrics job 'authbridge', got %q", cfg.Metrics.Job)
	}
	if cfg.Telemetry.ServiceName != "authbridge" {
		t.Errorf("Expected telemetry service name 'authbridge', got %q", cfg.Telemetry.ServiceName)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{
			Level:  "DEBUG",
			Format: "json",
			Output: "/var/log/authbridge.log",
		},
		Roles: RolesConfig{
			AdminMarker: "root",
			UserMarker:  "people",
		},
	}
	cfg.Directory.Timeout = 3 * time.Second

	ApplyDefaults(cfg)

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected explicit level 'DEBUG' to be preserved, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected explicit format 'json' to be preserved, got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "/var/log/authbridge.log" {
		t.Errorf("Expected explicit output to be preserved, got %q", cfg.Logging.Output)
	}
	if cfg.Roles.AdminMarker != "root" || cfg.Roles.UserMarker != "people" {
		t.Errorf("Expected explicit markers to be preserved, got %+v", cfg.Roles)
	}
	if cfg.Directory.Timeout != 3*time.Second {
		t.Errorf("Expected explicit timeout 3s to be preserved, got %v", cfg.Directory.Timeout)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	// The default config should pass validation
	err := Validate(cfg)
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestGetDefaultConfig_HasRequiredFields(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Backend == "" {
		t.Error("Default config missing backend")
	}
	if cfg.Directory.URL == "" {
		t.Error("Default config missing directory URL")
	}
	if cfg.Flow.FlowSlug == "" {
		t.Error("Default config missing flow slug")
	}
}
