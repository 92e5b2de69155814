package commands

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marmos91/authbridge/internal/cli/output"
	"github.com/marmos91/authbridge/internal/logger"
	"github.com/marmos91/authbridge/pkg/config"
)

// Environment variables read when credentials are not passed as arguments.
const (
	EnvUsername = "username"
	EnvPassword = "password"
)

// ErrMissingCredentials is returned when neither arguments nor environment
// provide a username and password.
var ErrMissingCredentials = errors.New("missing credentials: pass <username> <password> or set the username and password environment variables")

func runAuthenticate(cmd *cobra.Command, args []string) error {
	username, password, err := credentials(args, os.LookupEnv)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return authenticate(ctx, cfgFile, username, password, cmd.OutOrStdout())
}

// authenticate runs one attempt with the configuration at configPath and
// writes the report to stdout on success.
func authenticate(ctx context.Context, configPath, username, password string, stdout io.Writer) error {
	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	s, err := setup(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	ctx = logger.WithContext(ctx, logger.NewLogContext(s.bridge.Backend().Name(), username))

	decision, err := s.bridge.Authenticate(ctx, username, password)
	if err != nil {
		return err
	}
	return output.PrintReport(stdout, decision)
}

// credentials resolves the username and password from positional arguments,
// falling back to the environment for any that are missing.
func credentials(args []string, lookup func(string) (string, bool)) (string, string, error) {
	var username, password string
	var okUser, okPass bool

	if len(args) > 0 {
		username, okUser = args[0], true
	} else {
		username, okUser = lookup(EnvUsername)
	}
	if len(args) > 1 {
		password, okPass = args[1], true
	} else {
		password, okPass = lookup(EnvPassword)
	}

	if !okUser || username == "" || !okPass {
		return "", "", ErrMissingCredentials
	}
	return username, password, nil
}
