package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-ldap/ldap/v3"

	"github.com/marmos91/authbridge/pkg/auth"
)

// Conn is the subset of an LDAP connection used by the backend.
// *ldap.Conn satisfies it through ldapConn.
type Conn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Close() error
}

// DialFunc opens a connection to the directory described by cfg.
type DialFunc func(ctx context.Context, cfg *Config) (Conn, error)

// ldapConn adapts *ldap.Conn to Conn. The connection is closed when the dial
// context ends, which aborts any request in flight.
type ldapConn struct {
	*ldap.Conn
	ctx  context.Context
	stop func() bool
}

func (c ldapConn) Bind(username, password string) error {
	return c.interrupted(c.Conn.Bind(username, password))
}

func (c ldapConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	res, err := c.Conn.Search(req)
	return res, c.interrupted(err)
}

func (c ldapConn) GSSAPIBind(client ldap.GSSAPIClient, servicePrincipal, authzid string) error {
	return c.interrupted(c.Conn.GSSAPIBind(client, servicePrincipal, authzid))
}

func (c ldapConn) Close() error {
	c.stop()
	return c.Conn.Close()
}

// interrupted attaches the context error to a request that failed because
// the context ended.
func (c ldapConn) interrupted(err error) error {
	if err == nil {
		return nil
	}
	if cerr := c.ctx.Err(); cerr != nil {
		return fmt.Errorf("%w: %w", cerr, err)
	}
	return err
}

// DialLDAP is the default DialFunc. It honors cfg.Timeout for the dial and
// for every subsequent request on the connection, and ctx for the lifetime
// of the connection.
func DialLDAP(ctx context.Context, cfg *Config) (Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyTransport(err)
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid directory URL %q: %w", cfg.URL, err)
	}

	// #nosec G402 -- InsecureSkipVerify is user-configurable for development/testing
	tlsConfig := &tls.Config{
		ServerName:         u.Hostname(),
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	conn, err := ldap.DialURL(cfg.URL,
		ldap.DialWithDialer(&net.Dialer{Timeout: cfg.Timeout}),
		ldap.DialWithTLSConfig(tlsConfig),
	)
	if err != nil {
		return nil, classifyTransport(err)
	}
	conn.SetTimeout(cfg.Timeout)

	if cfg.StartTLS && u.Scheme == "ldap" {
		if err := conn.StartTLS(tlsConfig); err != nil {
			_ = conn.Close()
			return nil, classifyTransport(fmt.Errorf("starttls: %w", err))
		}
	}

	return ldapConn{
		Conn: conn,
		ctx:  ctx,
		stop: context.AfterFunc(ctx, func() { _ = conn.Close() }),
	}, nil
}

// resultCodeOf extracts the server result code carried by a bind or search
// error. A nil error is code 0. Client-side failures (network, timeouts,
// encoding) are returned as transport errors instead of a code. Any other
// code, registered or not, is returned for classification.
func resultCodeOf(err error) (int, error) {
	if err == nil {
		return int(ResultCodeSuccess), nil
	}
	var lerr *ldap.Error
	if errors.As(err, &lerr) && !isClientCode(lerr.ResultCode) {
		return int(lerr.ResultCode), nil
	}
	return 0, classifyTransport(err)
}

// isClientCode reports whether code is one go-ldap assigns to failures
// detected by the client rather than returned by the server.
func isClientCode(code uint16) bool {
	return code >= ldap.ErrorNetwork && code <= ldap.ErrorEmptyPassword
}

// classifyTransport maps a client-side failure onto ErrUpstreamTimeout or
// ErrUpstreamTransport.
func classifyTransport(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %v", auth.ErrUpstreamTimeout, err)
	}
	return fmt.Errorf("%w: %v", auth.ErrUpstreamTransport, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// go-ldap reports request timeouts as ErrorNetwork with a plain message.
	return strings.Contains(err.Error(), "timed out")
}
