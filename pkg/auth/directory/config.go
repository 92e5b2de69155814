package directory

import (
	"errors"
	"net/url"
	"time"
)

// DefaultTimeout bounds every directory operation when none is configured.
const DefaultTimeout = 10 * time.Second

// Config holds directory connection and lookup parameters.
type Config struct {
	// URL is the directory endpoint, e.g. "ldaps://ldap.example.com:636".
	URL string `mapstructure:"url" validate:"required,uri" yaml:"url"`

	// BindDN is the service principal used for the lookup search.
	// Required unless Kerberos is enabled.
	BindDN string `mapstructure:"bind_dn" yaml:"bind_dn"`

	// BindPassword is the service principal's secret.
	// Prefer AUTHBRIDGE_DIRECTORY_BIND_PASSWORD over the config file.
	BindPassword string `mapstructure:"bind_password" yaml:"bind_password"`

	// UserBaseDN is the search base for user entries and the suffix of the
	// DN used for the verification bind.
	UserBaseDN string `mapstructure:"user_base_dn" validate:"required" yaml:"user_base_dn"`

	// UsernameAttribute is the attribute matched against the username.
	// Default: "cn"
	UsernameAttribute string `mapstructure:"username_attribute" validate:"required" yaml:"username_attribute"`

	// Timeout bounds each dial, bind and search.
	// Default: 10s
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0" yaml:"timeout"`

	// StartTLS upgrades a plain ldap:// connection before binding.
	StartTLS bool `mapstructure:"start_tls" yaml:"start_tls"`

	// InsecureSkipVerify disables server certificate verification.
	// Development only.
	InsecureSkipVerify bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`

	// Attributes maps the six tracked user fields to directory attribute names.
	Attributes AttributeMap `mapstructure:"attributes" yaml:"attributes"`

	// Kerberos replaces the simple service bind with a GSSAPI bind.
	// User verification always uses a simple bind.
	Kerberos KerberosConfig `mapstructure:"kerberos" yaml:"kerberos"`
}

// ErrMissingServiceCredentials is returned by Validate when neither a bind DN
// and password nor Kerberos are configured for the service bind.
var ErrMissingServiceCredentials = errors.New("bind_dn and bind_password are required unless kerberos is enabled")

// Validate checks constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Kerberos.Enabled {
		return nil
	}
	if c.BindDN == "" || c.BindPassword == "" {
		return ErrMissingServiceCredentials
	}
	return nil
}

// AttributeMap names the directory attributes read for a user entry.
type AttributeMap struct {
	UID         string `mapstructure:"uid" validate:"required" yaml:"uid"`
	CN          string `mapstructure:"cn" validate:"required" yaml:"cn"`
	SN          string `mapstructure:"sn" validate:"required" yaml:"sn"`
	Mail        string `mapstructure:"mail" validate:"required" yaml:"mail"`
	DisplayName string `mapstructure:"display_name" validate:"required" yaml:"display_name"`
	MemberOf    string `mapstructure:"member_of" validate:"required" yaml:"member_of"`
}

// List returns the attribute names in request order.
func (m AttributeMap) List() []string {
	return []string{m.CN, m.SN, m.UID, m.Mail, m.MemberOf, m.DisplayName}
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.UsernameAttribute == "" {
		c.UsernameAttribute = "cn"
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Attributes.UID == "" {
		c.Attributes.UID = "uid"
	}
	if c.Attributes.CN == "" {
		c.Attributes.CN = "cn"
	}
	if c.Attributes.SN == "" {
		c.Attributes.SN = "sn"
	}
	if c.Attributes.Mail == "" {
		c.Attributes.Mail = "mail"
	}
	if c.Attributes.DisplayName == "" {
		c.Attributes.DisplayName = "displayName"
	}
	if c.Attributes.MemberOf == "" {
		c.Attributes.MemberOf = "memberOf"
	}

	if c.Kerberos.Krb5Conf == "" {
		c.Kerberos.Krb5Conf = DefaultKrb5Conf
	}
	if c.Kerberos.ServicePrincipal == "" {
		if u, err := url.Parse(c.URL); err == nil && u.Hostname() != "" {
			c.Kerberos.ServicePrincipal = "ldap/" + u.Hostname()
		}
	}
}
