package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/config"
)

const defaultUsername = "admin"

// LoginCmd creates the login command.
func LoginCmd(env *Env, g *Globals) *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the cluster",
		Long: `Log in to the cluster and keep the session for later commands.

The password is read from the terminal without echo, or from the first
line of stdin with --password-stdin. The session cookie is stored in
~/.config/clusteradm/session with owner-only permissions.`,
		Example: `  clusteradm login
  clusteradm login -u ops --url http://10.0.0.5:8081
  echo "$PASS" | clusteradm login --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd.Context(), env, g, username, passwordStdin)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", defaultUsername, "Username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

// LogoutCmd creates the logout command.
func LogoutCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Long: `End the current session on the cluster and forget it locally.

The local session is removed even when the cluster cannot be reached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd.Context(), env, g)
		},
	}
}

// readSecret reads a password from stdin or the terminal prompt.
func readSecret(env *Env, fromStdin bool, prompt string) (string, error) {
	var (
		pw  string
		err error
	)
	if fromStdin {
		pw, err = readLine(env.Stdin)
	} else {
		pw, err = env.PromptPassword(env.Stderr, prompt)
	}
	if err != nil {
		return "", err
	}
	if pw == "" {
		return "", ErrEmptyPassword
	}
	return pw, nil
}

// runLogin handles the login command.
func runLogin(ctx context.Context, env *Env, g *Globals, username string, passwordStdin bool) error {
	conn, s, err := connect(env, g)
	if err != nil {
		return err
	}

	password, err := readSecret(env, passwordStdin, "Password for "+username+": ")
	if err != nil {
		return err
	}

	if err := conn.Auth.Login(ctx, username, password); err != nil {
		return err
	}

	if err := env.SessionStore.Save(config.Session{URL: s.URL, Cookie: conn.Cookie()}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	_, _ = fmt.Fprintf(env.Stderr, "Logged in to %s as %s\n", s.URL, username)
	return nil
}

// runLogout handles the logout command.
func runLogout(ctx context.Context, env *Env, g *Globals) error {
	conn, _, err := connect(env, g)
	if err != nil {
		return err
	}

	logoutErr := conn.Auth.Logout(ctx)
	if err := env.SessionStore.Clear(); err != nil {
		return errors.Join(logoutErr, err)
	}
	if logoutErr != nil {
		return logoutErr
	}

	_, _ = fmt.Fprintln(env.Stderr, "Logged out")
	return nil
}
