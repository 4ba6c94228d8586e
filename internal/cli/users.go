package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/cluster"
	"github.com/alnah/clusteradm/internal/render"
)

// UsersCmd creates the users command with subcommands.
// Without a subcommand it lists users.
func UsersCmd(env *Env, g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "Manage accounts of the cluster auth backend",
		Example: `  clusteradm users
  clusteradm users add ops --fullname "Ops Team" --email ops@example.com
  clusteradm users edit ops --email oncall@example.com
  clusteradm users edit ops --password
  clusteradm users remove ops --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runUsersList(env))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runUsersList(env))
		},
	})
	cmd.AddCommand(usersAddCmd(env, g))
	cmd.AddCommand(usersEditCmd(env, g))
	cmd.AddCommand(usersRemoveCmd(env, g))

	return cmd
}

func runUsersList(env *Env) func(ctx context.Context, a Admin, s settings) error {
	return func(ctx context.Context, a Admin, s settings) error {
		users, err := a.ListUsers(ctx)
		if err != nil {
			return err
		}
		return emit(env, s, render.Users(users))
	}
}

// userFlags are the optional fields shared by add and edit.
type userFlags struct {
	fullname      string
	email         string
	passwordStdin bool
}

func (f *userFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.fullname, "fullname", "", "Full name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().BoolVar(&f.passwordStdin, "password-stdin", false, "Read the password from stdin")
}

func usersAddCmd(env *Env, g *Globals) *cobra.Command {
	var f userFlags

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Long: `Create a user. The password is prompted for without echo, or read
from stdin with --password-stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				password, err := readSecret(env, f.passwordStdin, "Password for new user "+args[0]+": ")
				if err != nil {
					return err
				}
				u, err := a.AddUser(ctx, cluster.UserInput{
					Username: args[0],
					Password: password,
					Fullname: f.fullname,
					Email:    f.email,
				})
				if err != nil {
					return err
				}
				return emit(env, s, render.Users{*u})
			})
		},
	}

	f.bind(cmd)

	return cmd
}

func usersEditCmd(env *Env, g *Globals) *cobra.Command {
	var (
		f           userFlags
		setPassword bool
	)

	cmd := &cobra.Command{
		Use:   "edit <username>",
		Short: "Change fields of a user",
		Long: `Change fields of a user. Only the flags given are sent; other fields
keep their values. --password prompts for a new password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				in := cluster.UserInput{Username: args[0], Fullname: f.fullname, Email: f.email}
				if setPassword || f.passwordStdin {
					password, err := readSecret(env, f.passwordStdin, "New password for "+args[0]+": ")
					if err != nil {
						return err
					}
					in.Password = password
				}
				u, err := a.EditUser(ctx, in)
				if err != nil {
					return err
				}
				return emit(env, s, render.Users{*u})
			})
		},
	}

	f.bind(cmd)
	cmd.Flags().BoolVar(&setPassword, "password", false, "Prompt for a new password")

	return cmd
}

func usersRemoveCmd(env *Env, g *Globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <username>",
		Aliases: []string{"rm"},
		Short:   "Delete a user",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("remove user %s: %w", args[0], ErrNotConfirmed)
			}
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				if _, err := a.RemoveUser(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.Stderr, "Removed user %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the removal")

	return cmd
}

// AuthCmd creates the auth command with subcommands.
// Without a subcommand it shows the auth settings.
func AuthCmd(env *Env, g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Show or toggle cluster authentication",
		Long: `Show or toggle cluster authentication.

When enabled, every admin call needs a session from clusteradm login.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				p, err := a.AuthParams(ctx)
				if err != nil {
					return err
				}
				return emit(env, s, render.Auth(*p))
			})
		},
	}

	cmd.AddCommand(authToggleCmd(env, g, "enable", "Require a session for admin calls", true))
	cmd.AddCommand(authToggleCmd(env, g, "disable", "Allow admin calls without a session", false))

	return cmd
}

func authToggleCmd(env *Env, g *Globals, use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				p, err := a.SetAuthEnabled(ctx, enabled)
				if err != nil {
					return err
				}
				return emit(env, s, render.Auth(*p))
			})
		},
	}
}
