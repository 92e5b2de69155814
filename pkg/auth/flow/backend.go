package flow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"

	"github.com/marmos91/authbridge/internal/logger"
	"github.com/marmos91/authbridge/internal/telemetry"
	"github.com/marmos91/authbridge/pkg/auth"
)

const profilePath = "/core/users/me/"

// identificationResponse is the solution submitted for an identification stage.
type identificationResponse struct {
	Component string `json:"component"`
	UIDField  string `json:"uid_field"`
	Password  string `json:"password"`
}

// profile is the subset of the users/me response the bridge reads.
type profile struct {
	User struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		IsActive bool   `json:"is_active"`
		Groups   []struct {
			Name string `json:"name"`
		} `json:"groups"`
	} `json:"user"`
}

// Backend authenticates by driving a remote flow executor.
//
// Each call to Authenticate uses a fresh HTTP client and cookie jar; nothing
// is shared between attempts.
type Backend struct {
	cfg       Config
	transport http.RoundTripper
}

// Option configures a Backend.
type Option func(*Backend)

// WithTransport replaces the HTTP transport. Used by tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(b *Backend) {
		b.transport = rt
	}
}

// New creates a flow Backend.
func New(cfg Config, opts ...Option) (*Backend, error) {
	cfg.ApplyDefaults()

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid flow base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid flow base URL %q: unsupported scheme %q", cfg.BaseURL, u.Scheme)
	}
	if cfg.FlowSlug == "" {
		return nil, fmt.Errorf("flow slug is required")
	}

	b := &Backend{cfg: cfg}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Name returns "flow".
func (b *Backend) Name() string {
	return "flow"
}

// Authenticate runs the identification flow and fetches the profile.
//
// Returns (nil, false, nil) when the executor answers with access denied,
// either before or after the credentials are submitted.
func (b *Backend) Authenticate(ctx context.Context, username, password string) (*auth.UserInfo, bool, error) {
	c, err := newClient(&b.cfg, b.transport)
	if err != nil {
		return nil, false, err
	}

	stage, err := b.fetchStage(ctx, c)
	if err != nil {
		return nil, false, err
	}

	var ident *IdentificationStage
	switch s := stage.(type) {
	case *IdentificationStage:
		ident = s
	case *AccessDeniedStage:
		logger.DebugCtx(ctx, "Flow denied access before identification", logger.KeyError, s.Message)
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: expected %s, got %q", auth.ErrUnexpectedStage, ComponentIdentification, ComponentOf(stage))
	}

	if err := ident.Accepts(b.cfg.UIDField); err != nil {
		return nil, false, err
	}

	next, err := b.solveStage(ctx, c, &identificationResponse{
		Component: ident.Component,
		UIDField:  username,
		Password:  password,
	})
	if err != nil {
		return nil, false, err
	}

	switch s := next.(type) {
	case *RedirectStage:
		logger.DebugCtx(ctx, "Flow completed", logger.KeyURL, s.To)
	case *AccessDeniedStage:
		logger.DebugCtx(ctx, "Flow denied access", logger.KeyError, s.Message)
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%w: expected %s, got %q", auth.ErrUnexpectedStage, ComponentRedirect, ComponentOf(next))
	}

	return b.fetchProfile(ctx, c)
}

func (b *Backend) executorPath() string {
	return "/flows/executor/" + url.PathEscape(b.cfg.FlowSlug) + "/?query="
}

func (b *Backend) fetchStage(ctx context.Context, c *client) (Stage, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanFlowFetchStage)
	defer span.End()

	stage, err := b.exchange(ctx, c, http.MethodGet, nil)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrStage, ComponentOf(stage)))
	return stage, nil
}

func (b *Backend) solveStage(ctx context.Context, c *client, solution *identificationResponse) (Stage, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanFlowSolveStage)
	defer span.End()

	stage, err := b.exchange(ctx, c, http.MethodPost, solution)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrStage, ComponentOf(stage)))
	return stage, nil
}

func (b *Backend) exchange(ctx context.Context, c *client, method string, body any) (Stage, error) {
	data, status, err := c.do(ctx, method, b.executorPath(), body)
	telemetry.SpanFromContext(ctx).SetAttributes(attribute.Int(telemetry.AttrHTTPStatus, status))
	if err != nil {
		return nil, err
	}

	stage, err := DecodeStage(data)
	if err != nil {
		return nil, err
	}
	logger.DebugCtx(ctx, "Flow stage received",
		logger.KeyStage, ComponentOf(stage),
		logger.KeyStatus, status)
	return stage, nil
}

func (b *Backend) fetchProfile(ctx context.Context, c *client) (*auth.UserInfo, bool, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanFlowProfile)
	defer span.End()

	data, status, err := c.do(ctx, http.MethodGet, profilePath, nil)
	span.SetAttributes(attribute.Int(telemetry.AttrHTTPStatus, status))
	if err != nil {
		telemetry.RecordError(ctx, err)
		return nil, false, err
	}

	var p profile
	if err := json.Unmarshal(data, &p); err != nil {
		err = fmt.Errorf("%w: undecodable profile: %v", auth.ErrUpstreamTransport, err)
		telemetry.RecordError(ctx, err)
		return nil, false, err
	}

	if !p.User.IsActive {
		err := fmt.Errorf("%w: %s", auth.ErrInactiveAccount, p.User.Username)
		telemetry.RecordError(ctx, err)
		return nil, false, err
	}

	groups := make([]string, 0, len(p.User.Groups))
	for _, g := range p.User.Groups {
		groups = append(groups, g.Name)
	}

	logger.DebugCtx(ctx, "Profile fetched", logger.KeyGroups, len(groups))
	return &auth.UserInfo{
		DisplayName: p.User.Name,
		Groups:      groups,
	}, true, nil
}
