package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/authbridge/pkg/config"
)

func TestRedact(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Directory.BindPassword = "s3cret"

	shown := redact(*cfg)
	assert.Equal(t, redacted, shown.Directory.BindPassword)
	assert.Equal(t, "s3cret", cfg.Directory.BindPassword, "original must be untouched")

	cfg.Directory.BindPassword = ""
	assert.Empty(t, redact(*cfg).Directory.BindPassword)
}

func TestConfigWarnings(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Directory.InsecureSkipVerify = true

	warnings := configWarnings(cfg)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "No role groups")
	assert.Contains(t, warnings[1], "directory.insecure_skip_verify")

	cfg.Roles.AdminGroup = "admins"
	cfg.Directory.InsecureSkipVerify = false
	assert.Empty(t, configWarnings(cfg))
}

func TestSummary(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Roles.UserGroup = "staff"

	pairs := summary(cfg)
	assert.Contains(t, pairs, [2]string{"Backend", "directory"})
	assert.Contains(t, pairs, [2]string{"Admin group", "(none)"})
	assert.Contains(t, pairs, [2]string{"User group", "staff"})
	assert.Contains(t, pairs, [2]string{"Metrics push", "disabled"})
	assert.Contains(t, pairs, [2]string{"Service bind", "simple cn=svc,dc=example,dc=com"})

	cfg.Directory.Kerberos.Enabled = true
	cfg.Directory.Kerberos.Principal = "authbridge"
	cfg.Directory.Kerberos.Realm = "EXAMPLE.COM"
	cfg.Directory.Kerberos.ServicePrincipal = "ldap/ldap.example.com"
	assert.Contains(t, summary(cfg), [2]string{"Service bind", "GSSAPI authbridge@EXAMPLE.COM -> ldap/ldap.example.com"})

	cfg.Backend = config.BackendFlow
	assert.Contains(t, summary(cfg), [2]string{"Flow slug", cfg.Flow.FlowSlug})
}

func TestSchema(t *testing.T) {
	schema := Schema()
	require.NotNil(t, schema.Properties)

	for _, key := range []string{"backend", "logging", "roles", "flow", "directory", "metrics", "telemetry"} {
		_, ok := schema.Properties.Get(key)
		assert.True(t, ok, "schema missing %q", key)
	}

	directory, ok := schema.Properties.Get("directory")
	require.True(t, ok)
	_, ok = directory.Properties.Get("bind_password")
	assert.True(t, ok)

	telemetry, ok := schema.Properties.Get("telemetry")
	require.True(t, ok)
	for pair := telemetry.Properties.Oldest(); pair != nil; pair = pair.Next() {
		assert.False(t, strings.Contains(strings.ToLower(pair.Key), "service"), "internal field %q exported", pair.Key)
	}
}
