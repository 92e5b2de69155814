package directory

import (
	"fmt"

	"github.com/go-ldap/ldap/v3"
	"github.com/go-ldap/ldap/v3/gssapi"
	krbconfig "github.com/jcmturner/gokrb5/v8/config"
	"github.com/jcmturner/gokrb5/v8/keytab"

	"github.com/marmos91/authbridge/pkg/auth"
)

// DefaultKrb5Conf is the Kerberos configuration read when none is set.
const DefaultKrb5Conf = "/etc/krb5.conf"

// KerberosConfig configures a GSSAPI service bind authenticated by a keytab.
type KerberosConfig struct {
	// Enabled switches the service bind from simple to GSSAPI.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Principal is the service account name without the realm.
	Principal string `mapstructure:"principal" validate:"required_if=Enabled true" yaml:"principal"`

	// Realm is the Kerberos realm of Principal.
	Realm string `mapstructure:"realm" validate:"required_if=Enabled true" yaml:"realm"`

	// Keytab holds the long-term key of Principal.
	Keytab string `mapstructure:"keytab" validate:"required_if=Enabled true" yaml:"keytab"`

	// Krb5Conf is the path of krb5.conf.
	// Default: "/etc/krb5.conf"
	Krb5Conf string `mapstructure:"krb5_conf" yaml:"krb5_conf"`

	// ServicePrincipal is the directory server's SPN.
	// Default: "ldap/<host of URL>"
	ServicePrincipal string `mapstructure:"service_principal" yaml:"service_principal"`
}

// gssapiBinder is implemented by connections that can perform a SASL
// GSSAPI bind. *ldap.Conn does.
type gssapiBinder interface {
	GSSAPIBind(client ldap.GSSAPIClient, servicePrincipal, authzid string) error
}

// load parses krb5.conf and the keytab.
func (k *KerberosConfig) load() error {
	if _, err := krbconfig.Load(k.Krb5Conf); err != nil {
		return fmt.Errorf("failed to load kerberos config %q: %w", k.Krb5Conf, err)
	}
	if _, err := keytab.Load(k.Keytab); err != nil {
		return fmt.Errorf("failed to load keytab %q: %w", k.Keytab, err)
	}
	return nil
}

// gssapiBind authenticates conn as the Kerberos service principal.
func (b *Backend) gssapiBind(conn Conn) (int, error) {
	k := b.cfg.Kerberos

	binder, ok := conn.(gssapiBinder)
	if !ok {
		return 0, fmt.Errorf("%w: connection does not support GSSAPI bind", auth.ErrUpstreamTransport)
	}

	client, err := gssapi.NewClientWithKeytab(k.Principal, k.Realm, k.Keytab, k.Krb5Conf)
	if err != nil {
		return 0, fmt.Errorf("%w: kerberos login as %s@%s: %v", auth.ErrUpstreamTransport, k.Principal, k.Realm, err)
	}
	defer func() { _ = client.Close() }()

	return resultCodeOf(binder.GSSAPIBind(client, k.ServicePrincipal, ""))
}
