package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/authbridge/internal/cli/output"
	"github.com/marmos91/authbridge/internal/cli/prompt"
	"github.com/marmos91/authbridge/internal/logger"
	"github.com/marmos91/authbridge/pkg/config"
)

var checkOutput string

var checkCmd = &cobra.Command{
	Use:   "check [username]",
	Short: "Interactively test credentials against the configured backend",
	Long: `Prompt for a password and run one authentication attempt, then print a
report with the resolved role and groups.

Unlike the root command, check is meant for humans: the report is printed
even when the attempt is rejected.

Examples:
  # Prompt for username and password
  authbridge check

  # Test a specific user and print JSON
  authbridge check alice -o json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "table", "Output format (table|json|yaml)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(checkOutput)
	if err != nil {
		return err
	}

	var defaultUser string
	if len(args) > 0 {
		defaultUser = args[0]
	}

	username := defaultUser
	if username == "" {
		if username, err = prompt.Username(os.Getenv(EnvUsername)); err != nil {
			return err
		}
	}
	password, err := prompt.Password("Password")
	if err != nil {
		return err
	}

	cfg, err := config.MustLoad(cfgFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	backend := s.bridge.Backend().Name()
	ctx = logger.WithContext(ctx, logger.NewLogContext(backend, username))

	start := time.Now()
	decision, authErr := s.bridge.Authenticate(ctx, username, password)
	report := output.NewCheckReport(username, backend, decision, authErr, time.Since(start).Milliseconds())

	printer := output.NewPrinter(cmd.OutOrStdout(), format, isColorTerminal())
	if err := printer.Print(report); err != nil {
		return err
	}

	if !report.Accepted() {
		printer.Error("Authentication " + report.Outcome)
		return fmt.Errorf("authentication %s", report.Outcome)
	}
	printer.Success("Authentication accepted")
	return nil
}
