package auth

// Role is the coarse access tier granted after authentication.
type Role int

const (
	// RoleNone means authenticated without a role tier.
	RoleNone Role = iota
	// RoleUser is the ordinary user tier.
	RoleUser
	// RoleAdmin is the administrator tier.
	RoleAdmin
)

// String returns the role name used in logs and reports.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "none"
	}
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Resolve applies the role policy to a set of group names.
//
// adminGroup and userGroup are the configured role groups; an empty string
// means the group is not configured. Admin takes precedence over user.
// When at least one group is configured and the user is in neither,
// accepted is false.
func Resolve(groups []string, adminGroup, userGroup string) (role Role, accepted bool) {
	p := RolePolicy{AdminGroup: adminGroup, UserGroup: userGroup}
	return p.Resolve(&UserInfo{Groups: groups})
}

// RolePolicy holds the configured role groups and the markers printed for
// each tier in the success report.
type RolePolicy struct {
	AdminGroup  string
	UserGroup   string
	AdminMarker string
	UserMarker  string
}

// Defined reports whether any role group is configured.
func (p RolePolicy) Defined() bool {
	return p.AdminGroup != "" || p.UserGroup != ""
}

// Resolve applies the policy to the user's groups.
func (p RolePolicy) Resolve(u *UserInfo) (Role, bool) {
	switch {
	case u.InGroup(p.AdminGroup):
		return RoleAdmin, true
	case u.InGroup(p.UserGroup):
		return RoleUser, true
	case !p.Defined():
		return RoleNone, true
	}
	return RoleNone, false
}

// Marker returns the host-facing marker for a role, or "" for RoleNone.
func (p RolePolicy) Marker(r Role) string {
	switch r {
	case RoleAdmin:
		return p.AdminMarker
	case RoleUser:
		return p.UserMarker
	default:
		return ""
	}
}
