package logger

import "log/slog"

// Standard field keys for structured logging.
// Use these keys consistently so attempts can be correlated across backends.
const (
	// ========================================================================
	// Attempt & Tracing
	// ========================================================================
	KeyAttemptID = "attempt_id" // Per-invocation identifier
	KeyTraceID   = "trace_id"   // OpenTelemetry trace ID
	KeySpanID    = "span_id"    // OpenTelemetry span ID

	// ========================================================================
	// Principal & Decision
	// ========================================================================
	KeyBackend    = "backend"     // flow or directory
	KeyUsername   = "username"    // Username as submitted
	KeyOutcome    = "outcome"     // accepted, rejected, role_rejected, error
	KeyRole       = "role"        // Granted role
	KeyGroups     = "groups"      // Number of group memberships
	KeyAdminGroup = "admin_group" // Configured admin group
	KeyUserGroup  = "user_group"  // Configured user group

	// ========================================================================
	// Flow Executor
	// ========================================================================
	KeyStage  = "stage"  // Challenge component
	KeyStatus = "status" // HTTP status code
	KeyURL    = "url"    // Redirect target or request URL

	// ========================================================================
	// Directory
	// ========================================================================
	KeyBaseDN     = "base_dn"     // Search base
	KeyFilter     = "filter"      // Search filter
	KeyEntries    = "entries"     // Number of matching entries
	KeyDN         = "dn"          // Bind DN or entry DN
	KeyResultCode = "result_code" // LDAP result code
	KeyResultDesc = "result_desc" // LDAP result code description

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Duration in milliseconds
	KeyError      = "error"       // Error message
	KeyConfig     = "config"      // Configuration file path
)

// AttemptID returns a slog.Attr for the attempt identifier
func AttemptID(id string) slog.Attr {
	return slog.String(KeyAttemptID, id)
}

// Backend returns a slog.Attr for the backend name
func Backend(name string) slog.Attr {
	return slog.String(KeyBackend, name)
}

// Username returns a slog.Attr for username
func Username(name string) slog.Attr {
	return slog.String(KeyUsername, name)
}

// Stage returns a slog.Attr for a challenge component
func Stage(component string) slog.Attr {
	return slog.String(KeyStage, component)
}

// ResultCode returns a slog.Attr for an LDAP result code
func ResultCode(code int) slog.Attr {
	return slog.Int(KeyResultCode, code)
}

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
