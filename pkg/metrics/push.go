package metrics

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	// DefaultJob is the Pushgateway job label.
	DefaultJob = "authbridge"

	// DefaultPushTimeout bounds the push request.
	DefaultPushTimeout = 5 * time.Second
)

// Config configures the Pushgateway target.
type Config struct {
	// PushGateway is the Pushgateway base URL. Empty disables metrics.
	PushGateway string `mapstructure:"push_gateway" validate:"omitempty,url" yaml:"push_gateway"`

	// Job is the job label attached to pushed metrics.
	Job string `mapstructure:"job" yaml:"job"`

	// Timeout bounds the push request.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Enabled reports whether a Pushgateway is configured.
func (c Config) Enabled() bool {
	return c.PushGateway != ""
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Job == "" {
		c.Job = DefaultJob
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultPushTimeout
	}
}

// Push sends the registry to the configured Pushgateway, replacing the
// previous group for this job and instance.
func (m *Metrics) Push(ctx context.Context, cfg Config) error {
	if m == nil || !cfg.Enabled() {
		return nil
	}
	cfg.ApplyDefaults()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	pusher := push.New(cfg.PushGateway, cfg.Job).Gatherer(m.registry)
	if host, err := os.Hostname(); err == nil {
		pusher = pusher.Grouping("instance", host)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", cfg.PushGateway, err)
	}
	return nil
}
