package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	hawtio "github.com/woq-blended/hawtio-integration"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of hawtio",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hawtio version %s\n", strings.TrimSpace(hawtio.Version))
		},
	}
}
