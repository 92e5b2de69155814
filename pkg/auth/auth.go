package auth

import (
	"context"
	"slices"
)

// Backend checks a username/password pair against one upstream identity system.
//
// Implementations distinguish three outcomes:
//   - (*UserInfo, true, nil): credentials accepted, profile collected
//   - (nil, false, nil): ordinary rejection (wrong password, unknown user,
//     access denied, ambiguous identity)
//   - (nil, false, error): anything that is not a verdict on the credentials
//
// A Backend never returns a partial UserInfo.
type Backend interface {
	// Name returns the backend identifier for logging and metrics.
	// Examples: "flow", "directory"
	Name() string

	// Authenticate validates the credentials and collects the profile.
	Authenticate(ctx context.Context, username, password string) (*UserInfo, bool, error)
}

// UserInfo is the outcome of a successful authentication. Its shape does not
// depend on which Backend produced it.
type UserInfo struct {
	// DisplayName is the human-readable name reported to the host.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// Groups holds the short group names the principal belongs to.
	// Order is irrelevant; it is treated as a set.
	Groups []string `json:"groups" yaml:"groups"`
}

// InGroup reports whether the user is a member of the named group.
// An empty name never matches.
func (u *UserInfo) InGroup(name string) bool {
	if u == nil || name == "" {
		return false
	}
	return slices.Contains(u.Groups, name)
}
