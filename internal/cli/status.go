package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/render"
)

// StatusCmd creates the status command.
func StatusCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a cluster overview",
		Long: `Show a cluster overview: server health counts, open issues and
whether authentication is enabled.

In table mode the issues are listed below the summary.`,
		Example: `  clusteradm status
  clusteradm status -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, runStatus(env))
		},
	}
}

func runStatus(env *Env) func(ctx context.Context, a Admin, s settings) error {
	return func(ctx context.Context, a Admin, s settings) error {
		sum, err := a.Status(ctx)
		if err != nil {
			return err
		}
		if err := emit(env, s, render.Summary(*sum)); err != nil {
			return err
		}
		if s.Output != render.FormatTable || len(sum.Issues) == 0 {
			return nil
		}
		_, _ = fmt.Fprintln(env.Stdout)
		return emit(env, s, render.Issues(sum.Issues))
	}
}

// IssuesCmd creates the issues command.
func IssuesCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "List problems detected in the cluster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				issues, err := a.Issues(ctx)
				if err != nil {
					return err
				}
				return emit(env, s, render.Issues(issues))
			})
		},
	}
}
