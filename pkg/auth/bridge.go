package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/authbridge/internal/logger"
	"github.com/marmos91/authbridge/internal/telemetry"
)

// Outcome labels the result of one authentication attempt for metrics.
type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeRejected     Outcome = "rejected"
	OutcomeRoleRejected Outcome = "role_rejected"
	OutcomeError        Outcome = "error"
)

// Metrics receives one observation per attempt. A nil Metrics is valid and
// records nothing.
type Metrics interface {
	ObserveAttempt(backend string, outcome Outcome, duration time.Duration)
}

// Decision is the result of an accepted attempt.
type Decision struct {
	// User is the profile returned by the backend.
	User *UserInfo `json:"user" yaml:"user"`

	// Role is the tier granted by the role policy.
	Role Role `json:"role" yaml:"role"`

	// Marker is the host-facing marker for Role, empty for RoleNone.
	Marker string `json:"marker,omitempty" yaml:"marker,omitempty"`

	// Backend is the name of the backend that authenticated the user.
	Backend string `json:"backend" yaml:"backend"`
}

// Bridge runs one Backend and applies a RolePolicy to its result.
//
// Thread safety: a Bridge holds no mutable state; it is built once per
// process and used for a single attempt.
type Bridge struct {
	backend Backend
	policy  RolePolicy
	metrics Metrics
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithMetrics sets the metrics sink for attempt observations.
func WithMetrics(m Metrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}

// NewBridge creates a Bridge for the given backend and role policy.
func NewBridge(backend Backend, policy RolePolicy, opts ...Option) *Bridge {
	b := &Bridge{
		backend: backend,
		policy:  policy,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Backend returns the configured backend.
func (b *Bridge) Backend() Backend {
	return b.backend
}

// Authenticate checks the credentials and applies the role policy.
//
// Returns:
//   - (*Decision, nil) when the credentials are valid and the role policy accepts
//   - ErrAuthFailed when the backend rejected the credentials
//   - ErrRoleRejected when the credentials are valid but no role group matched
//   - any backend error otherwise
func (b *Bridge) Authenticate(ctx context.Context, username, password string) (*Decision, error) {
	name := b.backend.Name()
	start := time.Now()

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanAuthenticate)
	defer span.End()
	span.SetAttributes(
		telemetry.Backend(name),
		telemetry.Username(username),
	)
	if lc := logger.FromContext(ctx); lc != nil {
		span.SetAttributes(telemetry.AttemptID(lc.AttemptID))
		if traceID := telemetry.TraceID(ctx); traceID != "" {
			ctx = logger.WithContext(ctx, lc.WithTrace(traceID, telemetry.SpanID(ctx)))
		}
	}

	decision, outcome, err := b.authenticate(ctx, username, password)

	if b.metrics != nil {
		b.metrics.ObserveAttempt(name, outcome, time.Since(start))
	}
	span.SetAttributes(telemetry.Outcome(string(outcome)))

	if err != nil {
		if outcome == OutcomeError {
			telemetry.RecordError(ctx, err)
		}
		logger.DebugCtx(ctx, "Authentication attempt finished",
			logger.KeyOutcome, outcome,
			logger.KeyDurationMs, logger.Duration(start),
			logger.KeyError, err)
		return nil, err
	}

	span.SetAttributes(attribute.String(telemetry.AttrRole, decision.Role.String()))
	logger.InfoCtx(ctx, "Authentication accepted",
		logger.KeyRole, decision.Role.String(),
		logger.KeyGroups, len(decision.User.Groups),
		logger.KeyDurationMs, logger.Duration(start))
	return decision, nil
}

func (b *Bridge) authenticate(ctx context.Context, username, password string) (*Decision, Outcome, error) {
	user, ok, err := b.backend.Authenticate(ctx, username, password)
	if err != nil {
		return nil, OutcomeError, fmt.Errorf("%s backend: %w", b.backend.Name(), err)
	}
	if !ok || user == nil {
		return nil, OutcomeRejected, ErrAuthFailed
	}

	role, accepted := b.policy.Resolve(user)
	if !accepted {
		logger.WarnCtx(ctx, "Credentials valid but no role group matched",
			logger.KeyAdminGroup, b.policy.AdminGroup,
			logger.KeyUserGroup, b.policy.UserGroup)
		return nil, OutcomeRoleRejected, ErrRoleRejected
	}

	return &Decision{
		User:    user,
		Role:    role,
		Marker:  b.policy.Marker(role),
		Backend: b.backend.Name(),
	}, OutcomeAccepted, nil
}

// IsRejection reports whether err is an ordinary rejection (bad credentials
// or failed role policy) rather than an operational failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrRoleRejected)
}
