package main

import (
	"github.com/spf13/cobra"
	"github.com/woq-blended/hawtio-integration/internal/cli"
)

func newWatchCmd(opts *cli.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the outline again whenever the route file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx := cli.NewSignalContext(cmd.Context())
			defer sigCtx.Cancel()
			return cli.RunWatch(sigCtx, *opts, cmd.OutOrStdout())
		},
	}
}
