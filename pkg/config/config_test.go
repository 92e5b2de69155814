package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

const directoryTOML = `
backend = "directory"

[roles]
admin_group = "admins"
user_group = "staff"

[directory]
url = "ldap://ldap.example.com:389"
bind_dn = "cn=svc,dc=example,dc=com"
bind_password = "secret"
user_base_dn = "ou=users,dc=example,dc=com"
`

func TestLoad_DirectoryConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.toml", directoryTOML))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Backend != BackendDirectory {
		t.Errorf("Expected backend %q, got %q", BackendDirectory, cfg.Backend)
	}
	if cfg.Directory.URL != "ldap://ldap.example.com:389" {
		t.Errorf("Expected directory URL from file, got %q", cfg.Directory.URL)
	}
	if cfg.Directory.UsernameAttribute != "cn" {
		t.Errorf("Expected default username attribute 'cn', got %q", cfg.Directory.UsernameAttribute)
	}
	if cfg.Directory.Attributes.MemberOf != "memberOf" {
		t.Errorf("Expected default memberOf attribute, got %q", cfg.Directory.Attributes.MemberOf)
	}
	if cfg.Roles.AdminGroup != "admins" || cfg.Roles.UserGroup != "staff" {
		t.Errorf("Expected role groups from file, got %+v", cfg.Roles)
	}

	// Verify defaults were applied
	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected default level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default output 'stderr', got %q", cfg.Logging.Output)
	}
	if cfg.Roles.AdminMarker != DefaultAdminMarker {
		t.Errorf("Expected default admin marker, got %q", cfg.Roles.AdminMarker)
	}
}

func TestLoad_FlowConfig(t *testing.T) {
	path := writeConfig(t, "config.toml", `
backend = "flow"

[logging]
level = "debug"
format = "json"

[flow]
base_url = "https://auth.example.com/"
flow_slug = "default-authentication-flow"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level normalized to 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Flow.BaseURL != "https://auth.example.com" {
		t.Errorf("Expected trailing slash trimmed, got %q", cfg.Flow.BaseURL)
	}
	if cfg.Flow.UIDField != "username" {
		t.Errorf("Expected default uid field 'username', got %q", cfg.Flow.UIDField)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
backend: flow
flow:
  base_url: "https://auth.example.com"
  flow_slug: "login"
  timeout: "3s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load YAML config: %v", err)
	}
	if cfg.Flow.Timeout != 3*time.Second {
		t.Errorf("Expected timeout 3s, got %v", cfg.Flow.Timeout)
	}
}

func TestLoad_Durations(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"integer seconds", `15`, 15 * time.Second},
		{"float seconds", `0.5`, 500 * time.Millisecond},
		{"duration string", `"250ms"`, 250 * time.Millisecond},
		{"numeric string", `"7"`, 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "config.toml", directoryTOML+"timeout = "+tt.value+"\n")

			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Failed to load config: %v", err)
			}
			if cfg.Directory.Timeout != tt.want {
				t.Errorf("Expected timeout %v, got %v", tt.want, cfg.Directory.Timeout)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got: %v", err)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
backend = "flow"
[flow
base_url = 
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Expected error with invalid TOML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, "config.toml", `
backend = "directory"

[directory]
url = "ldap://ldap.example.com"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected validation error for incomplete directory section")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Expected validation failure, got: %v", err)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	path := writeConfig(t, "config.toml", `backend = "kerberos"`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "oneof") {
		t.Errorf("Expected 'oneof' validation error, got: %v", err)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("AUTHBRIDGE_LOGGING_LEVEL", "ERROR")
	t.Setenv("AUTHBRIDGE_DIRECTORY_BIND_PASSWORD", "from-env")
	t.Setenv("AUTHBRIDGE_DIRECTORY_TIMEOUT", "30")

	path := writeConfig(t, "config.toml", `
backend = "directory"

[logging]
level = "INFO"

[directory]
url = "ldap://ldap.example.com:389"
bind_dn = "cn=svc,dc=example,dc=com"
user_base_dn = "ou=users,dc=example,dc=com"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected level 'ERROR' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.Directory.BindPassword != "from-env" {
		t.Errorf("Expected bind password from env var, got %q", cfg.Directory.BindPassword)
	}
	if cfg.Directory.Timeout != 30*time.Second {
		t.Errorf("Expected timeout 30s from env var, got %v", cfg.Directory.Timeout)
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	_, err := MustLoad(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got: %v", err)
	}
	if !strings.Contains(err.Error(), "--config") {
		t.Errorf("Expected instructions in error, got: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"", filepath.Join(cwd, DefaultConfigPath)},
		{"config.toml", filepath.Join(cwd, "config.toml")},
		{"conf/auth.toml", filepath.Join(cwd, "conf", "auth.toml")},
		{"~/authbridge.toml", filepath.Join(home, "authbridge.toml")},
		{"~", home},
	}

	for _, tt := range tests {
		got, err := ResolvePath(tt.in)
		if err != nil {
			t.Errorf("ResolvePath(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePath_AbsoluteUnchanged(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "config.toml")

	got, err := ResolvePath(abs)
	if err != nil {
		t.Fatalf("ResolvePath error: %v", err)
	}
	if got != abs {
		t.Errorf("Expected %q, got %q", abs, got)
	}
}
