package main

import (
	"github.com/spf13/cobra"
	"github.com/woq-blended/hawtio-integration/internal/cli"
)

func newOutlineCmd(opts *cli.Options) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "outline [route-id]",
		Short: "Print the outline tree of the routes",
		Long: `Prints the steps of every route (or of the given route) as a nested list.
Output to a terminal is styled; use --plain to get the raw markdown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			out := cmd.OutOrStdout()
			return cli.WriteOutline(out, ws, routeArg(args), plain || !cli.IsTerminal(out))
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print markdown without terminal styling")
	return cmd
}
