package flow

import (
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every request of an attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultUIDField is the identification field the username is submitted as.
	DefaultUIDField = "username"
)

// Config configures the flow challenge backend.
type Config struct {
	// BaseURL is the root of the identity server, without the /api/v3 suffix.
	BaseURL string `mapstructure:"base_url" validate:"required,url" yaml:"base_url"`

	// FlowSlug names the authentication flow to execute.
	FlowSlug string `mapstructure:"flow_slug" validate:"required" yaml:"flow_slug"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0" yaml:"timeout"`

	// UIDField must appear in the identification stage's user_fields.
	UIDField string `mapstructure:"uid_field" yaml:"uid_field"`

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UIDField == "" {
		c.UIDField = DefaultUIDField
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}
