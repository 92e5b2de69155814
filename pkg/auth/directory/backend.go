package directory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-ldap/ldap/v3"
	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/authbridge/internal/logger"
	"github.com/marmos91/authbridge/internal/telemetry"
	"github.com/marmos91/authbridge/pkg/auth"
)

// groupPrefix is stripped from the leading RDN of every memberOf value.
const groupPrefix = "cn="

// User is a directory user entry reduced to the tracked attributes.
type User struct {
	UID         string
	CN          string
	SN          string
	Mail        string
	DisplayName string

	// MemberOf holds the leading RDN value of each group DN, in directory order.
	MemberOf []string
}

// Backend authenticates against an LDAP directory.
//
// Lookup binds as the service principal and searches for the user entry;
// Verify binds as the user on a separate connection. Every connection is
// closed before the operation returns.
type Backend struct {
	cfg  Config
	dial DialFunc
}

// Option configures a Backend.
type Option func(*Backend)

// WithDialer replaces the connection factory. Used by tests.
func WithDialer(dial DialFunc) Option {
	return func(b *Backend) {
		b.dial = dial
	}
}

// New creates a directory Backend.
func New(cfg Config, opts ...Option) (*Backend, error) {
	cfg.ApplyDefaults()

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL %q: %w", cfg.URL, err)
	}
	switch u.Scheme {
	case "ldap", "ldaps", "ldapi":
	default:
		return nil, fmt.Errorf("invalid directory URL %q: unsupported scheme %q", cfg.URL, u.Scheme)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Kerberos.Enabled {
		if err := cfg.Kerberos.load(); err != nil {
			return nil, err
		}
	}

	b := &Backend{
		cfg:  cfg,
		dial: DialLDAP,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns "directory".
func (b *Backend) Name() string {
	return "directory"
}

// Authenticate looks the user up and verifies the password.
//
// Unknown user, ambiguous user and wrong password all return (nil, false, nil).
func (b *Backend) Authenticate(ctx context.Context, username, password string) (*auth.UserInfo, bool, error) {
	user, found, err := b.Lookup(ctx, username)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	ok, err := b.Verify(ctx, username, password)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	displayName := user.DisplayName
	if strings.TrimSpace(displayName) == "" {
		displayName = user.CN
	}
	return &auth.UserInfo{
		DisplayName: displayName,
		Groups:      user.MemberOf,
	}, true, nil
}

// Lookup finds the user entry matching username.
//
// Returns (nil, false, nil) when zero or more than one entry matches.
// A single match missing any tracked attribute is ErrDataIntegrity.
func (b *Backend) Lookup(ctx context.Context, username string) (*User, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDirectoryLookup)
	defer span.End()

	user, found, err := b.lookup(ctx, username)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	span.SetAttributes(attribute.Bool(telemetry.AttrFound, found))
	return user, found, err
}

func (b *Backend) lookup(ctx context.Context, username string) (*User, bool, error) {
	conn, err := b.dial(ctx, &b.cfg)
	if err != nil {
		return nil, false, err
	}
	defer b.release(ctx, conn)

	if err := b.serviceBind(conn); err != nil {
		return nil, false, err
	}

	filter := fmt.Sprintf("(%s=%s)", b.cfg.UsernameAttribute, ldap.EscapeFilter(username))
	req := ldap.NewSearchRequest(
		b.cfg.UserBaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		int(b.cfg.Timeout.Seconds()),
		false,
		filter,
		b.cfg.Attributes.List(),
		nil,
	)

	logger.DebugCtx(ctx, "Searching directory",
		logger.KeyBaseDN, b.cfg.UserBaseDN,
		logger.KeyFilter, filter)

	result, err := conn.Search(req)
	if err != nil {
		return nil, false, b.operationError("search", err)
	}

	switch n := len(result.Entries); {
	case n == 0:
		logger.DebugCtx(ctx, "No directory entry matched", logger.KeyUsername, username)
		return nil, false, nil
	case n > 1:
		logger.ErrorCtx(ctx, "Found more than one user with the same username",
			logger.KeyUsername, username,
			logger.KeyEntries, n)
		return nil, false, nil
	}

	user, err := b.entryToUser(result.Entries[0])
	if err != nil {
		return nil, false, err
	}
	logger.DebugCtx(ctx, "Directory entry found",
		logger.KeyDN, result.Entries[0].DN,
		logger.KeyGroups, len(user.MemberOf))
	return user, true, nil
}

// Verify checks the password with a bind as the user.
//
// Returns true only when the bind result classifies as Success. Every other
// defined result code is false; an undefined code is ErrUnknownResultCode.
func (b *Backend) Verify(ctx context.Context, username, password string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanDirectoryVerify)
	defer span.End()

	ok, err := b.verify(ctx, username, password)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	return ok, err
}

func (b *Backend) verify(ctx context.Context, username, password string) (bool, error) {
	// An empty simple bind is an anonymous bind and proves nothing.
	if password == "" {
		logger.DebugCtx(ctx, "Empty password rejected without binding")
		return false, nil
	}

	conn, err := b.dial(ctx, &b.cfg)
	if err != nil {
		return false, err
	}
	defer b.release(ctx, conn)

	dn := b.UserDN(username)
	logger.DebugCtx(ctx, "Checking authentication bind", logger.KeyDN, dn)

	code, err := resultCodeOf(conn.Bind(dn, password))
	if err != nil {
		return false, err
	}

	rc, ok := Classify(code)
	if !ok {
		return false, fmt.Errorf("%w: bind returned %d", auth.ErrUnknownResultCode, code)
	}

	span := telemetry.SpanFromContext(ctx)
	span.SetAttributes(attribute.Int(telemetry.AttrResultCode, code))
	logger.DebugCtx(ctx, "Bind completed",
		logger.KeyResultCode, code,
		logger.KeyResultDesc, rc.Description())

	return rc.IsSuccess(), nil
}

// UserDN builds the DN used for the verification bind.
func (b *Backend) UserDN(username string) string {
	return fmt.Sprintf("%s=%s,%s", b.cfg.UsernameAttribute, ldap.EscapeDN(username), b.cfg.UserBaseDN)
}

func (b *Backend) serviceBind(conn Conn) error {
	principal := b.cfg.BindDN
	var (
		code int
		err  error
	)
	if b.cfg.Kerberos.Enabled {
		principal = b.cfg.Kerberos.Principal + "@" + b.cfg.Kerberos.Realm
		code, err = b.gssapiBind(conn)
	} else {
		code, err = resultCodeOf(conn.Bind(b.cfg.BindDN, b.cfg.BindPassword))
	}
	if err != nil {
		return fmt.Errorf("service bind: %w", err)
	}

	rc, ok := Classify(code)
	if !ok {
		return fmt.Errorf("%w: service bind returned %d", auth.ErrUnknownResultCode, code)
	}
	if !rc.IsSuccess() {
		return fmt.Errorf("%w: service bind as %q failed: %s", auth.ErrUpstreamTransport, principal, rc)
	}
	return nil
}

// operationError wraps a failed search. Server-side result codes are kept in
// the message; client-side failures keep their timeout/transport class.
func (b *Backend) operationError(op string, err error) error {
	code, terr := resultCodeOf(err)
	if terr != nil {
		return fmt.Errorf("%s: %w", op, terr)
	}
	if rc, ok := Classify(code); ok {
		return fmt.Errorf("%w: %s failed: %s", auth.ErrUpstreamTransport, op, rc)
	}
	return fmt.Errorf("%w: %s returned %d", auth.ErrUnknownResultCode, op, code)
}

func (b *Backend) release(ctx context.Context, conn Conn) {
	if err := conn.Close(); err != nil {
		logger.WarnCtx(ctx, "Failed to close directory connection", logger.KeyError, err)
	}
}

func (b *Backend) entryToUser(entry *ldap.Entry) (*User, error) {
	attrs := b.cfg.Attributes

	var missing []string
	first := func(name string) string {
		values := entry.GetEqualFoldAttributeValues(name)
		if len(values) == 0 {
			missing = append(missing, name)
			return ""
		}
		return values[0]
	}

	user := &User{
		UID:         first(attrs.UID),
		CN:          first(attrs.CN),
		SN:          first(attrs.SN),
		Mail:        first(attrs.Mail),
		DisplayName: first(attrs.DisplayName),
	}

	groups := entry.GetEqualFoldAttributeValues(attrs.MemberOf)
	if len(groups) == 0 {
		missing = append(missing, attrs.MemberOf)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s lacks %s", auth.ErrDataIntegrity, entry.DN, strings.Join(missing, ", "))
	}

	user.MemberOf = make([]string, 0, len(groups))
	for _, dn := range groups {
		user.MemberOf = append(user.MemberOf, GroupName(dn))
	}
	return user, nil
}

// GroupName reduces a group DN to the value of its leading RDN:
// "cn=admins,ou=groups,dc=example,dc=com" becomes "admins".
//
// This is a split on the first comma followed by trimming "cn=". It does not
// parse escaped separators or multi-valued RDNs.
func GroupName(dn string) string {
	leading, _, _ := strings.Cut(dn, ",")
	return strings.TrimPrefix(leading, groupPrefix)
}
