package config

import (
	"fmt"

	"github.com/marmos91/authbridge/pkg/auth"
	"github.com/marmos91/authbridge/pkg/auth/directory"
	"github.com/marmos91/authbridge/pkg/auth/flow"
)

// CreateBackend builds the backend selected by cfg.Backend.
func (c *Config) CreateBackend() (auth.Backend, error) {
	switch c.Backend {
	case BackendFlow:
		b, err := flow.New(c.Flow)
		if err != nil {
			return nil, fmt.Errorf("failed to create flow backend: %w", err)
		}
		return b, nil
	case BackendDirectory:
		b, err := directory.New(c.Directory)
		if err != nil {
			return nil, fmt.Errorf("failed to create directory backend: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (expected %q or %q)", c.Backend, BackendFlow, BackendDirectory)
	}
}

// RolePolicy returns the role policy for the bridge.
func (c *Config) RolePolicy() auth.RolePolicy {
	return auth.RolePolicy{
		AdminGroup:  c.Roles.AdminGroup,
		UserGroup:   c.Roles.UserGroup,
		AdminMarker: c.Roles.AdminMarker,
		UserMarker:  c.Roles.UserMarker,
	}
}
