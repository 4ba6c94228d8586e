package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/cluster"
	"github.com/alnah/clusteradm/internal/render"
)

// FailoverCmd creates the failover command with subcommands.
// Without a subcommand it shows the current settings.
func FailoverCmd(env *Env, g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "failover",
		Short: "Show and change failover settings",
		Long: `Show and change failover settings.

Modes: ` + strings.Join(cluster.FailoverModes, ", ") + `.`,
		Example: `  clusteradm failover
  clusteradm failover set eventual
  clusteradm failover promote <replicaset-uuid> <instance-uuid>`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runFailoverGet(env))
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show failover settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runFailoverGet(env))
		},
	})
	cmd.AddCommand(failoverSetCmd(env, g))
	cmd.AddCommand(failoverPromoteCmd(env, g))

	return cmd
}

func runFailoverGet(env *Env) func(ctx context.Context, a Admin, s settings) error {
	return func(ctx context.Context, a Admin, s settings) error {
		p, err := a.Failover(ctx)
		if err != nil {
			return err
		}
		return emit(env, s, render.Failover(*p))
	}
}

func failoverSetCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:       "set <mode>",
		Short:     "Change the failover mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: cluster.FailoverModes,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				p, err := a.SetFailoverMode(ctx, args[0])
				if err != nil {
					return err
				}
				return emit(env, s, render.Failover(*p))
			})
		},
	}
}

func failoverPromoteCmd(env *Env, g *Globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "promote <replicaset-uuid> <instance-uuid>",
		Short: "Make an instance the leader of its replicaset",
		Long: `Make an instance the leader of its replicaset.

Only meaningful with stateful failover. --force skips the consistency
check of the new leader.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				if err := a.PromoteLeader(ctx, args[0], args[1], force); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.Stderr, "Promoted %s in %s\n", args[1], args[0])
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the consistency check")

	return cmd
}
