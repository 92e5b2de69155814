// Package commands implements the authbridge command line.
//
// The root command performs one authentication attempt and writes the
// host-facing report to stdout. Everything else (logs, errors, prompts) goes
// to stderr.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/authbridge/cmd/authbridge/commands/config"
	pkgconfig "github.com/marmos91/authbridge/pkg/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile   string
	verbosity int
	quiet     bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "authbridge [username] [password]",
	Short: "Authenticate a user against an external identity provider",
	Long: `authbridge checks a username and password against an authentik-style
flow executor or an LDAP directory and reports the result in the format
expected by command-line authentication providers.

On success it prints to stdout and exits 0:

  username = <display name>
  group = system-admin | system-users

On failure nothing is written to stdout and the exit code is 1.

Credentials are taken from the positional arguments, or from the
"username" and "password" environment variables when omitted.

Examples:
  # Authenticate with credentials in the environment
  username=alice password=secret authbridge --config /etc/authbridge.toml

  # Authenticate with positional arguments and debug logs
  authbridge -vv alice secret`,
	Args:          cobra.MaximumNArgs(2),
	RunE:          runAuthenticate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", pkgconfig.DefaultConfigPath, "path to the config file")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Add subcommands
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(codesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(config.Cmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
