package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/authbridge/internal/logger"
	"github.com/marmos91/authbridge/internal/telemetry"
	"github.com/marmos91/authbridge/pkg/auth"
	"github.com/marmos91/authbridge/pkg/config"
	"github.com/marmos91/authbridge/pkg/metrics"
)

// session holds everything built from configuration for one attempt.
type session struct {
	cfg     *config.Config
	bridge  *auth.Bridge
	metrics *metrics.Metrics

	shutdownTelemetry func(context.Context) error
}

// setup initializes logging, tracing and metrics and builds the bridge.
func setup(ctx context.Context, cfg *config.Config) (*session, error) {
	if err := InitLogger(cfg, verbosity, quiet); err != nil {
		return nil, err
	}

	cfg.Telemetry.ServiceVersion = Version
	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	backend, err := cfg.CreateBackend()
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	s := &session{
		cfg:               cfg,
		shutdownTelemetry: shutdown,
	}

	var opts []auth.Option
	if cfg.Metrics.Enabled() {
		s.metrics = metrics.New()
		opts = append(opts, auth.WithMetrics(s.metrics))
	}

	s.bridge = auth.NewBridge(backend, cfg.RolePolicy(), opts...)

	logger.Debug("Session initialized",
		logger.KeyBackend, backend.Name(),
		"telemetry", telemetry.IsEnabled(),
		"metrics", cfg.Metrics.Enabled())
	return s, nil
}

// close pushes metrics and flushes traces. Failures are logged only: the
// verdict has already been reached.
func (s *session) close(ctx context.Context) {
	// The attempt context may be cancelled; flushing gets its own budget.
	ctx = context.WithoutCancel(ctx)

	if err := s.metrics.Push(ctx, s.cfg.Metrics); err != nil {
		logger.Warn("Failed to push metrics", logger.KeyError, err)
	}
	if err := s.shutdownTelemetry(ctx); err != nil {
		logger.Warn("Failed to shut down telemetry", logger.KeyError, err)
	}
}

// InitLogger initializes the structured logger from configuration and the
// verbosity flags.
func InitLogger(cfg *config.Config, verbose int, quiet bool) error {
	loggerCfg := logger.Config{
		Level:  effectiveLevel(cfg.Logging.Level, verbose, quiet),
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// effectiveLevel applies -v/-q on top of the configured level. -v lowers the
// threshold to INFO, -vv and beyond to DEBUG; a more verbose configured level
// is kept. -q forces ERROR.
func effectiveLevel(configured string, verbose int, quiet bool) string {
	if quiet {
		return logger.LevelError.String()
	}

	base, ok := logger.ParseLevel(configured)
	if !ok {
		base = logger.LevelWarn
	}

	var requested logger.Level
	switch {
	case verbose <= 0:
		return base.String()
	case verbose == 1:
		requested = logger.LevelInfo
	default:
		requested = logger.LevelDebug
	}

	if requested < base {
		return requested.String()
	}
	return base.String()
}

// isColorTerminal reports whether stdout is an interactive terminal.
func isColorTerminal() bool {
	return logger.IsTerminal(os.Stdout)
}
