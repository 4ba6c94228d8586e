package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/render"
)

// ServersCmd creates the servers command with subcommands.
// Without a subcommand it lists servers.
func ServersCmd(env *Env, g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "servers",
		Aliases: []string{"server"},
		Short:   "Inspect and manage cluster servers",
		Long: `Inspect and manage cluster servers.

Without a subcommand, lists every known server. Servers that have not
joined a replicaset are shown as unconfigured.`,
		Example: `  clusteradm servers
  clusteradm servers show 2e6f0c5b-7c8d-4a1e-9b5f-1c2d3e4f5a6b
  clusteradm servers probe localhost:3303
  clusteradm servers expel 2e6f0c5b-7c8d-4a1e-9b5f-1c2d3e4f5a6b --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runServersList(env))
		},
	}

	cmd.AddCommand(serversListCmd(env, g))
	cmd.AddCommand(serversShowCmd(env, g))
	cmd.AddCommand(serversProbeCmd(env, g))
	cmd.AddCommand(serversExpelCmd(env, g))

	return cmd
}

func serversListCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List servers",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runServersList(env))
		},
	}
}

func runServersList(env *Env) func(ctx context.Context, a Admin, s settings) error {
	return func(ctx context.Context, a Admin, s settings) error {
		servers, err := a.ListServers(ctx)
		if err != nil {
			return err
		}
		return emit(env, s, render.Servers(servers))
	}
}

func serversShowCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <uuid>",
		Short: "Show runtime details of one server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				srv, err := a.ServerInfo(ctx, args[0])
				if err != nil {
					return err
				}
				return emit(env, s, render.ServerDetail(*srv))
			})
		},
	}
}

func serversProbeCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <uri>",
		Short: "Check that an instance is reachable and announce it to the cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				if err := a.Probe(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.Stderr, "Probe of %s succeeded\n", args[0])
				return nil
			})
		},
	}
}

func serversExpelCmd(env *Env, g *Globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "expel <uuid>",
		Short: "Permanently remove a server from the cluster",
		Long: `Permanently remove a server from the cluster.

An expelled server cannot rejoin under the same UUID. Requires --yes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("expel %s: %w", args[0], ErrNotConfirmed)
			}
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				if err := a.Expel(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.Stderr, "Expelled %s\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the expel")

	return cmd
}

// ReplicasetsCmd creates the replicasets command.
func ReplicasetsCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:     "replicasets",
		Aliases: []string{"rs"},
		Short:   "List replicasets with their roles and masters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				rs, err := a.ListReplicasets(ctx)
				if err != nil {
					return err
				}
				return emit(env, s, render.Replicasets(rs))
			})
		},
	}
}

// BootstrapVshardCmd creates the bootstrap-vshard command.
func BootstrapVshardCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap-vshard",
		Short: "Distribute buckets once storage replicasets are configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				if err := a.BootstrapVshard(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(env.Stderr, "Vshard bootstrapped")
				return nil
			})
		},
	}
}
