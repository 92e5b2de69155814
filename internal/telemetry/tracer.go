package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys for authentication spans.
// These follow OpenTelemetry semantic conventions where applicable.
const (
	// ========================================================================
	// Attempt attributes
	// ========================================================================
	AttrBackend  = "auth.backend" // flow or directory
	AttrUsername = "user.name"    // Username as submitted
	AttrOutcome  = "auth.outcome" // accepted, rejected, role_rejected, error
	AttrRole     = "auth.role"    // Granted role
	AttrAttempt  = "auth.attempt" // Attempt identifier

	// ========================================================================
	// Flow executor attributes
	// ========================================================================
	AttrStage      = "flow.stage"                // Challenge component returned
	AttrHTTPStatus = "http.response.status_code" // HTTP status of the exchange

	// ========================================================================
	// Directory attributes
	// ========================================================================
	AttrFound      = "ldap.found"       // Exactly one entry matched
	AttrResultCode = "ldap.result_code" // Bind result code
)

// Span names.
// Format: <component>.<operation>
const (
	SpanAuthenticate = "auth.authenticate"

	SpanFlowFetchStage = "flow.fetch_stage"
	SpanFlowSolveStage = "flow.solve_stage"
	SpanFlowProfile    = "flow.profile"

	SpanDirectoryLookup = "directory.lookup"
	SpanDirectoryVerify = "directory.verify"
)

// Backend returns an attribute for the backend name
func Backend(name string) attribute.KeyValue {
	return attribute.String(AttrBackend, name)
}

// Username returns an attribute for username
func Username(name string) attribute.KeyValue {
	return attribute.String(AttrUsername, name)
}

// Outcome returns an attribute for the attempt outcome
func Outcome(outcome string) attribute.KeyValue {
	return attribute.String(AttrOutcome, outcome)
}

// AttemptID returns an attribute for the attempt identifier
func AttemptID(id string) attribute.KeyValue {
	return attribute.String(AttrAttempt, id)
}
