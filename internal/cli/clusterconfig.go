package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alnah/clusteradm/internal/cluster"
)

// ClusterConfigCmd creates the cluster-config command with subcommands.
func ClusterConfigCmd(env *Env, g *Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster-config",
		Short: "Download, validate and upload the clusterwide configuration",
		Long: `Download, validate and upload the clusterwide configuration.

The configuration is a YAML document shared by every instance. Upload
checks locally that the document is a YAML mapping before sending it.`,
		Example: `  clusteradm cluster-config download -f config.yml
  clusteradm cluster-config validate config.yml
  clusteradm cluster-config upload config.yml`,
	}

	cmd.AddCommand(clusterConfigDownloadCmd(env, g))
	cmd.AddCommand(clusterConfigValidateCmd(env))
	cmd.AddCommand(clusterConfigUploadCmd(env, g))

	return cmd
}

func clusterConfigDownloadCmd(env *Env, g *Globals) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Print or save the clusterwide configuration",
		Long: `Print the clusterwide configuration to stdout, or save it with -f.
An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				doc, err := a.DownloadConfig(ctx)
				if err != nil {
					return err
				}
				if file == "" {
					_, err := env.Stdout.Write(doc)
					return err
				}
				if err := writeFileAtomic(file, doc); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.Stderr, "Saved to %s\n", file)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Save to file instead of stdout")

	return cmd
}

func clusterConfigValidateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a configuration file without uploading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readInputFile(args[0])
			if err != nil {
				return err
			}
			if err := cluster.ValidateConfig(doc); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(env.Stderr, "%s is valid\n", args[0])
			return nil
		},
	}
}

func clusterConfigUploadCmd(env *Env, g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Replace the clusterwide configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readInputFile(args[0])
			if err != nil {
				return err
			}
			return runAdmin(cmd.Context(), env, g, func(ctx context.Context, a Admin, s settings) error {
				if err := a.UploadConfig(ctx, doc); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(env.Stderr, "Uploaded %s\n", args[0])
				return nil
			})
		},
	}
}
