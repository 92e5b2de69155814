package auth

import "errors"

// Standard authentication errors.
//
// Backends wrap these with fmt.Errorf("%w: ...") to attach detail; callers
// classify with errors.Is.
var (
	// ErrAuthFailed is the facade-level result for an ordinary rejection
	// (the backend reported the credentials as not accepted).
	ErrAuthFailed = errors.New("auth: authentication failed")

	// ErrRoleRejected indicates valid credentials for a principal that matches
	// none of the configured role groups.
	ErrRoleRejected = errors.New("auth: user is not a member of any required group")

	// ErrProtocolShape indicates a challenge that lacks the fields needed to
	// submit a username and password.
	ErrProtocolShape = errors.New("auth: challenge is missing required fields")

	// ErrUnexpectedStage indicates the upstream flow moved to a stage the
	// bridge does not expect at that point.
	ErrUnexpectedStage = errors.New("auth: unexpected challenge stage")

	// ErrUpstreamTimeout indicates an upstream call exceeded the configured timeout.
	ErrUpstreamTimeout = errors.New("auth: upstream timed out")

	// ErrUpstreamTransport indicates a transport or protocol failure talking
	// to the upstream (connection refused, bad status, undecodable body).
	ErrUpstreamTransport = errors.New("auth: upstream transport failure")

	// ErrInactiveAccount indicates accepted credentials for a disabled account.
	ErrInactiveAccount = errors.New("auth: account is not active")

	// ErrDataIntegrity indicates a matched directory entry that lacks a
	// mandatory attribute.
	ErrDataIntegrity = errors.New("auth: directory entry is missing mandatory attributes")

	// ErrUnknownResultCode indicates a bind outcome code outside the closed
	// result code registry. It is never mapped to acceptance or rejection.
	ErrUnknownResultCode = errors.New("auth: unknown directory result code")
)
