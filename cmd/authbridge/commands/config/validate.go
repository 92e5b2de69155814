package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/authbridge/internal/cli/output"
	"github.com/marmos91/authbridge/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the authbridge configuration file.

Checks for syntax errors, missing required fields, and invalid values, and
builds the selected backend without contacting it.

Examples:
  # Validate config.toml in the working directory
  authbridge config validate

  # Validate specific config file
  authbridge config validate --config /etc/authbridge/config.toml`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}
	if _, err := cfg.CreateBackend(); err != nil {
		return err
	}

	displayPath, err := config.ResolvePath(path)
	if err != nil {
		displayPath = path
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", displayPath)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintln(out, "\nConfiguration summary:")
	return output.SimpleTable(out, summary(cfg))
}

// configWarnings reports settings that are valid but probably unintended.
func configWarnings(cfg *config.Config) []string {
	var warnings []string

	if !cfg.RolePolicy().Defined() {
		warnings = append(warnings, "No role groups configured - every authenticated user is accepted without a group")
	}

	switch cfg.Backend {
	case config.BackendFlow:
		if cfg.Flow.InsecureSkipVerify {
			warnings = append(warnings, "flow.insecure_skip_verify is enabled - TLS certificates are not verified")
		}
	case config.BackendDirectory:
		if cfg.Directory.InsecureSkipVerify {
			warnings = append(warnings, "directory.insecure_skip_verify is enabled - TLS certificates are not verified")
		}
	}
	return warnings
}

func summary(cfg *config.Config) [][2]string {
	pairs := [][2]string{{"Backend", cfg.Backend}}

	switch cfg.Backend {
	case config.BackendFlow:
		pairs = append(pairs,
			[2]string{"Base URL", cfg.Flow.BaseURL},
			[2]string{"Flow slug", cfg.Flow.FlowSlug},
			[2]string{"Timeout", cfg.Flow.Timeout.String()},
		)
	case config.BackendDirectory:
		pairs = append(pairs,
			[2]string{"Directory URL", cfg.Directory.URL},
			[2]string{"User base DN", cfg.Directory.UserBaseDN},
			[2]string{"Service bind", serviceBind(cfg)},
			[2]string{"Timeout", cfg.Directory.Timeout.String()},
		)
	}

	pairs = append(pairs,
		[2]string{"Admin group", orNone(cfg.Roles.AdminGroup)},
		[2]string{"User group", orNone(cfg.Roles.UserGroup)},
		[2]string{"Log level", cfg.Logging.Level},
		[2]string{"Tracing", enabled(cfg.Telemetry.Enabled)},
		[2]string{"Metrics push", enabled(cfg.Metrics.Enabled())},
	)
	return pairs
}

func serviceBind(cfg *config.Config) string {
	if k := cfg.Directory.Kerberos; k.Enabled {
		return fmt.Sprintf("GSSAPI %s@%s -> %s", k.Principal, k.Realm, k.ServicePrincipal)
	}
	return "simple " + cfg.Directory.BindDN
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func enabled(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
