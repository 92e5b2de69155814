package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/authbridge/pkg/auth"
	"github.com/marmos91/authbridge/pkg/config"
)

type testUser struct {
	password string
	name     string
	groups   []string
}

// newFlowServer serves a minimal flow executor with an identification stage.
func newFlowServer(t *testing.T, users map[string]testUser) *httptest.Server {
	t.Helper()

	var current string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/flows/executor/login/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"component":       "ak-stage-identification",
				"user_fields":     []string{"username", "email"},
				"password_fields": true,
			})
			return
		}

		var body struct {
			UIDField string `json:"uid_field"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		u, ok := users[body.UIDField]
		if !ok || u.password != body.Password {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"component":     "ak-stage-access-denied",
				"error_message": "Invalid password",
			})
			return
		}
		current = body.UIDField
		_ = json.NewEncoder(w).Encode(map[string]any{"component": "xak-flow-redirect", "to": "/"})
	})
	mux.HandleFunc("/api/v3/core/users/me/", func(w http.ResponseWriter, r *http.Request) {
		u := users[current]
		groups := make([]map[string]string, 0, len(u.groups))
		for _, g := range u.groups {
			groups = append(groups, map[string]string{"name": g})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{
				"username":  current,
				"name":      u.name,
				"is_active": true,
				"groups":    groups,
			},
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeFlowConfig(t *testing.T, baseURL string) string {
	t.Helper()

	content := `
backend = "flow"

[roles]
admin_group = "admins"
user_group = "staff"

[flow]
base_url = "` + baseURL + `"
flow_slug = "login"
timeout = 5
`
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testUsers() map[string]testUser {
	return map[string]testUser{
		"alice": {password: "wonderland", name: "Alice Liddell", groups: []string{"admins", "staff"}},
		"bob":   {password: "builder", name: "Bob", groups: []string{"staff"}},
		"carol": {password: "singer", name: "Carol", groups: []string{"guests"}},
	}
}

func TestAuthenticate_Admin(t *testing.T) {
	server := newFlowServer(t, testUsers())
	path := writeFlowConfig(t, server.URL)

	var stdout bytes.Buffer
	err := authenticate(context.Background(), path, "alice", "wonderland", &stdout)
	require.NoError(t, err)
	assert.Equal(t, "username = Alice Liddell\ngroup = system-admin\n", stdout.String())
}

func TestAuthenticate_User(t *testing.T) {
	server := newFlowServer(t, testUsers())
	path := writeFlowConfig(t, server.URL)

	var stdout bytes.Buffer
	err := authenticate(context.Background(), path, "bob", "builder", &stdout)
	require.NoError(t, err)
	assert.Equal(t, "username = Bob\ngroup = system-users\n", stdout.String())
}

func TestAuthenticate_WrongPasswordWritesNothing(t *testing.T) {
	server := newFlowServer(t, testUsers())
	path := writeFlowConfig(t, server.URL)

	var stdout bytes.Buffer
	err := authenticate(context.Background(), path, "alice", "looking-glass", &stdout)
	require.ErrorIs(t, err, auth.ErrAuthFailed)
	assert.Empty(t, stdout.String())
}

func TestAuthenticate_RoleRejectedWritesNothing(t *testing.T) {
	server := newFlowServer(t, testUsers())
	path := writeFlowConfig(t, server.URL)

	var stdout bytes.Buffer
	err := authenticate(context.Background(), path, "carol", "singer", &stdout)
	require.ErrorIs(t, err, auth.ErrRoleRejected)
	assert.Empty(t, stdout.String())
}

func TestAuthenticate_MissingConfig(t *testing.T) {
	var stdout bytes.Buffer
	err := authenticate(context.Background(), filepath.Join(t.TempDir(), "none.toml"), "alice", "x", &stdout)
	require.ErrorIs(t, err, config.ErrConfigNotFound)
	assert.Empty(t, stdout.String())
}

func TestAuthenticate_UpstreamDown(t *testing.T) {
	server := newFlowServer(t, testUsers())
	path := writeFlowConfig(t, server.URL)
	server.Close()

	var stdout bytes.Buffer
	err := authenticate(context.Background(), path, "alice", "wonderland", &stdout)
	require.ErrorIs(t, err, auth.ErrUpstreamTransport)
	assert.Empty(t, stdout.String())
}

func TestRootCommand_Subcommands(t *testing.T) {
	server := newFlowServer(t, testUsers())
	path := writeFlowConfig(t, server.URL)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"version", []string{"version", "--short"}, Version},
		{"codes", []string{"codes", "-o", "json"}, `"description": "Invalid Credentials"`},
		{"config validate", []string{"config", "validate", "--config", path}, "Validation: OK"},
		{"config show", []string{"config", "show", "--config", path}, "flow_slug: login"},
		{"config schema", []string{"config", "schema"}, `"backend"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root := GetRootCmd()
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(tt.args)
			t.Cleanup(func() {
				root.SetOut(nil)
				root.SetErr(nil)
				root.SetArgs(nil)
			})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}
