package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBackend is a test Backend.
type mockBackend struct {
	name  string
	user  *UserInfo
	ok    bool
	err   error
	calls int
}

func (m *mockBackend) Name() string { return m.name }
func (m *mockBackend) Authenticate(_ context.Context, _, _ string) (*UserInfo, bool, error) {
	m.calls++
	return m.user, m.ok, m.err
}

// recordingMetrics captures ObserveAttempt calls.
type recordingMetrics struct {
	backend  string
	outcomes []Outcome
}

func (r *recordingMetrics) ObserveAttempt(backend string, outcome Outcome, _ time.Duration) {
	r.backend = backend
	r.outcomes = append(r.outcomes, outcome)
}

func testPolicy(admin, user string) RolePolicy {
	return RolePolicy{
		AdminGroup:  admin,
		UserGroup:   user,
		AdminMarker: "system-admin",
		UserMarker:  "system-users",
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		groups       []string
		admin, user  string
		wantRole     Role
		wantAccepted bool
	}{
		{"no policy, no groups", nil, "", "", RoleNone, true},
		{"no policy, some groups", []string{"guests"}, "", "", RoleNone, true},
		{"admin match", []string{"admins"}, "admins", "", RoleAdmin, true},
		{"user match", []string{"users"}, "", "users", RoleUser, true},
		{"admin wins over user", []string{"users", "admins"}, "admins", "users", RoleAdmin, true},
		{"only user matches with both configured", []string{"users"}, "admins", "users", RoleUser, true},
		{"admin only configured, disjoint", []string{"guests"}, "admins", "", RoleNone, false},
		{"user only configured, disjoint", []string{"guests"}, "", "users", RoleNone, false},
		{"both configured, disjoint", []string{"guests"}, "admins", "users", RoleNone, false},
		{"both configured, no groups", nil, "admins", "users", RoleNone, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			role, accepted := Resolve(tc.groups, tc.admin, tc.user)
			assert.Equal(t, tc.wantRole, role)
			assert.Equal(t, tc.wantAccepted, accepted)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	groups := []string{"b", "admins", "users", "a"}
	first, firstOK := Resolve(groups, "admins", "users")
	for range 10 {
		role, ok := Resolve(groups, "admins", "users")
		assert.Equal(t, first, role)
		assert.Equal(t, firstOK, ok)
	}
	assert.Equal(t, RoleAdmin, first)
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "admin", RoleAdmin.String())
	assert.Equal(t, "user", RoleUser.String())
	assert.Equal(t, "none", RoleNone.String())

	text, err := RoleAdmin.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "admin", string(text))
}

func TestRolePolicy_Marker(t *testing.T) {
	p := testPolicy("admins", "users")
	assert.Equal(t, "system-admin", p.Marker(RoleAdmin))
	assert.Equal(t, "system-users", p.Marker(RoleUser))
	assert.Empty(t, p.Marker(RoleNone))
	assert.True(t, p.Defined())
	assert.False(t, RolePolicy{}.Defined())
}

func TestUserInfo_InGroup(t *testing.T) {
	u := &UserInfo{DisplayName: "Alice", Groups: []string{"admins"}}
	assert.True(t, u.InGroup("admins"))
	assert.False(t, u.InGroup("users"))
	assert.False(t, u.InGroup(""))

	var nilUser *UserInfo
	assert.False(t, nilUser.InGroup("admins"))
}

func TestRolePolicy_Resolve(t *testing.T) {
	p := testPolicy("admins", "users")

	role, ok := p.Resolve(&UserInfo{Groups: []string{"users", "admins"}})
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)

	role, ok = p.Resolve(&UserInfo{Groups: []string{"staff"}})
	assert.False(t, ok)
	assert.Equal(t, RoleNone, role)

	_, ok = p.Resolve(nil)
	assert.False(t, ok)

	// An empty configured group never matches an empty group name.
	role, ok = testPolicy("", "users").Resolve(&UserInfo{Groups: []string{""}})
	assert.False(t, ok)
	assert.Equal(t, RoleNone, role)

	role, ok = RolePolicy{}.Resolve(&UserInfo{Groups: []string{"staff"}})
	assert.True(t, ok)
	assert.Equal(t, RoleNone, role)
}

func TestBridge_AdminAccepted(t *testing.T) {
	backend := &mockBackend{
		name: "directory",
		user: &UserInfo{DisplayName: "Alice", Groups: []string{"admins"}},
		ok:   true,
	}
	metrics := &recordingMetrics{}
	bridge := NewBridge(backend, testPolicy("admins", ""), WithMetrics(metrics))

	decision, err := bridge.Authenticate(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", decision.User.DisplayName)
	assert.Equal(t, RoleAdmin, decision.Role)
	assert.Equal(t, "system-admin", decision.Marker)
	assert.Equal(t, "directory", decision.Backend)

	assert.Equal(t, "directory", metrics.backend)
	assert.Equal(t, []Outcome{OutcomeAccepted}, metrics.outcomes)
	assert.Equal(t, 1, backend.calls)
}

func TestBridge_NoPolicyAcceptsWithoutRole(t *testing.T) {
	backend := &mockBackend{
		name: "flow",
		user: &UserInfo{DisplayName: "Bob", Groups: []string{"guests"}},
		ok:   true,
	}
	bridge := NewBridge(backend, testPolicy("", ""))

	decision, err := bridge.Authenticate(context.Background(), "bob", "secret")
	require.NoError(t, err)
	assert.Equal(t, RoleNone, decision.Role)
	assert.Empty(t, decision.Marker)
}

func TestBridge_RoleRejected(t *testing.T) {
	backend := &mockBackend{
		name: "directory",
		user: &UserInfo{DisplayName: "Guest", Groups: []string{"guests"}},
		ok:   true,
	}
	metrics := &recordingMetrics{}
	bridge := NewBridge(backend, testPolicy("admins", "users"), WithMetrics(metrics))

	decision, err := bridge.Authenticate(context.Background(), "guest", "secret")
	assert.Nil(t, decision)
	require.ErrorIs(t, err, ErrRoleRejected)
	assert.True(t, IsRejection(err))
	assert.Equal(t, []Outcome{OutcomeRoleRejected}, metrics.outcomes)
}

func TestBridge_BackendRejects(t *testing.T) {
	backend := &mockBackend{name: "flow"}
	metrics := &recordingMetrics{}
	bridge := NewBridge(backend, testPolicy("", ""), WithMetrics(metrics))

	decision, err := bridge.Authenticate(context.Background(), "mallory", "wrong")
	assert.Nil(t, decision)
	require.ErrorIs(t, err, ErrAuthFailed)
	assert.True(t, IsRejection(err))
	assert.Equal(t, []Outcome{OutcomeRejected}, metrics.outcomes)
}

func TestBridge_BackendError(t *testing.T) {
	backend := &mockBackend{name: "flow", err: ErrUpstreamTimeout}
	metrics := &recordingMetrics{}
	bridge := NewBridge(backend, testPolicy("", ""), WithMetrics(metrics))

	decision, err := bridge.Authenticate(context.Background(), "alice", "secret")
	assert.Nil(t, decision)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamTimeout))
	assert.False(t, IsRejection(err))
	assert.Contains(t, err.Error(), "flow backend")
	assert.Equal(t, []Outcome{OutcomeError}, metrics.outcomes)
}

func TestBridge_OkWithoutUserIsRejection(t *testing.T) {
	backend := &mockBackend{name: "flow", ok: true}
	bridge := NewBridge(backend, testPolicy("", ""))

	_, err := bridge.Authenticate(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrAuthFailed)
}

func TestBridge_Backend(t *testing.T) {
	backend := &mockBackend{name: "flow"}
	bridge := NewBridge(backend, RolePolicy{})
	assert.Same(t, backend, bridge.Backend())
}
