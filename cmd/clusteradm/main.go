package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/apierr"
	"github.com/alnah/clusteradm/internal/cli"
	"github.com/alnah/clusteradm/internal/cluster"
	"github.com/alnah/clusteradm/internal/config"
	"github.com/alnah/clusteradm/internal/render"
)

// Injected at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitUsage      = 2
	ExitSetup      = 3
	ExitValidation = 4
	ExitAccess     = 5
	ExitNetwork    = 6
	ExitServer     = 7
	ExitInterrupt  = 130
)

func main() {
	// Load .env file if present (ignore error if missing).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	env := cli.DefaultEnv()
	g := &cli.Globals{}

	rootCmd := &cobra.Command{
		Use:   "clusteradm",
		Short: "Administer a Cartridge cluster from the terminal",
		Long: `Administer a Cartridge cluster through its web UI API.

The cluster URL comes from --url, then the config file, then
CLUSTERADM_URL. Run clusteradm login first when auth is enabled.`,
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		// Silence Cobra's default error/usage printing; we handle it ourselves.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	g.Bind(rootCmd)

	rootCmd.AddCommand(cli.LoginCmd(env, g))
	rootCmd.AddCommand(cli.LogoutCmd(env, g))
	rootCmd.AddCommand(cli.StatusCmd(env, g))
	rootCmd.AddCommand(cli.IssuesCmd(env, g))
	rootCmd.AddCommand(cli.ServersCmd(env, g))
	rootCmd.AddCommand(cli.ReplicasetsCmd(env, g))
	rootCmd.AddCommand(cli.BootstrapVshardCmd(env, g))
	rootCmd.AddCommand(cli.FailoverCmd(env, g))
	rootCmd.AddCommand(cli.UsersCmd(env, g))
	rootCmd.AddCommand(cli.AuthCmd(env, g))
	rootCmd.AddCommand(cli.ClusterConfigCmd(env, g))
	rootCmd.AddCommand(cli.ConfigCmd(env))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		code := exitCode(err)
		if code == ExitUsage || code == ExitInterrupt {
			fmt.Fprintln(os.Stderr, err)
		} else {
			render.Error(os.Stderr, err, cli.ErrorOptions(env, g))
		}
		os.Exit(code)
	}
}

// exitCode maps errors to exit codes.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	if errors.Is(err, context.Canceled) {
		return ExitInterrupt
	}

	// Cobra doesn't expose typed errors, so we check for known error message patterns.
	if isCobraUsageError(err) {
		return ExitUsage
	}

	// Setup is checked first: a broken config file wraps a validation sentinel.
	if errors.Is(err, cli.ErrURLMissing) || errors.Is(err, cli.ErrBadConfig) {
		return ExitSetup
	}

	if errors.Is(err, cluster.ErrInvalidUUID) || errors.Is(err, cluster.ErrInvalidFailoverMode) ||
		errors.Is(err, cluster.ErrInvalidConfig) || errors.Is(err, cluster.ErrEmptyUsername) ||
		errors.Is(err, cli.ErrFileNotFound) || errors.Is(err, cli.ErrOutputExists) ||
		errors.Is(err, cli.ErrNotConfirmed) || errors.Is(err, cli.ErrEmptyPassword) ||
		errors.Is(err, config.ErrInvalidValue) || errors.Is(err, config.ErrUnknownKey) {
		return ExitValidation
	}

	if apierr.IsAccessDeniedError(err) || errors.Is(err, apierr.ErrAccessDenied) ||
		errors.Is(err, apierr.ErrAuthFailed) {
		return ExitAccess
	}

	// A 5xx with an empty body means the server process is gone.
	if apierr.IsNetworkError(err) || errors.Is(err, apierr.ErrNetwork) ||
		(errors.Is(err, apierr.ErrServer) && apierr.IsDeadServerError(err)) {
		return ExitNetwork
	}

	if isServerError(err) {
		return ExitServer
	}

	return ExitGeneral
}

// isServerError reports whether the cluster answered with a failure.
func isServerError(err error) bool {
	if errors.Is(err, apierr.ErrServer) || errors.Is(err, apierr.ErrNotFound) {
		return true
	}
	var gqlErr *apierr.GraphQLError
	if errors.As(err, &gqlErr) {
		return true
	}
	switch apierr.Category(err) {
	case apierr.KindGraphQLApplication, apierr.KindRestTransport, apierr.KindAxiosApplication:
		return true
	}
	return false
}

// cobraUsageErrorPatterns contains error message substrings that indicate Cobra usage errors.
// These patterns are stable across Cobra versions (tested with v1.8+).
var cobraUsageErrorPatterns = []string{
	"required flag",             // Missing required flag
	"unknown flag",              // Flag doesn't exist
	"unknown shorthand",         // Short flag doesn't exist
	"unknown command",           // Subcommand doesn't exist
	"flag needs an argument",    // Flag provided without value
	"invalid argument",          // Invalid flag value type
	"if any flags in the group", // Mutually exclusive flag violation
	"accepts ",                  // Wrong number of arguments (e.g., "accepts 1 arg(s)")
	"requires at least",         // Too few arguments
	"requires at most",          // Too many arguments
}

// isCobraUsageError checks if an error is a Cobra usage/parsing error.
func isCobraUsageError(err error) bool {
	if err == nil {
		return false
	}
	errMsg := err.Error()
	for _, pattern := range cobraUsageErrorPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}
	return false
}
