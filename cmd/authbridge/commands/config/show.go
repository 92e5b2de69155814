package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/authbridge/internal/cli/output"
	"github.com/marmos91/authbridge/pkg/config"
)

const redacted = "[REDACTED]"

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Display the configuration after defaults and environment overrides.

Secrets are redacted. By default outputs YAML format.

Examples:
  # Show config as YAML
  authbridge config show

  # Show as JSON
  authbridge config show --output json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(configPath(cmd))
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}

	shown := redact(*cfg)

	switch format {
	case output.FormatJSON:
		return output.PrintJSON(cmd.OutOrStdout(), shown)
	case output.FormatYAML:
		return output.PrintYAML(cmd.OutOrStdout(), shown)
	default:
		return fmt.Errorf("config show supports yaml or json, not %s", format)
	}
}

// redact returns a copy of cfg with secrets masked.
func redact(cfg config.Config) config.Config {
	if cfg.Directory.BindPassword != "" {
		cfg.Directory.BindPassword = redacted
	}
	return cfg
}
