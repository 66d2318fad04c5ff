package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/internal/cli"
)

func newRootCmd() *cobra.Command {
	opts := &cli.Options{}

	rootCmd := &cobra.Command{
		Use:   "hawtio",
		Short: "hawtio inspects and edits Camel route XML",
		Long: `hawtio reads a Camel route document (a camelContext or routes element) and
shows it as an outline or a flow diagram, decodes steps into property records
and writes edited records back into the XML.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVarP(&opts.File, "file", "f", cli.DefaultFile, "Camel route XML document")
	rootCmd.PersistentFlags().StringVar(&opts.Schema, "schema", "", "YAML schema catalog (defaults to the embedded catalog)")
	rootCmd.PersistentFlags().StringArrayVar(&opts.Set, "set", nil, "Setting as key=value, e.g. camelMaximumLabelWidth=20 (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level on stderr: debug, info, warn or error (default warn)")
	rootCmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "text", "Log format on stderr: text or json")

	rootCmd.AddCommand(
		newOutlineCmd(opts),
		newDiagramCmd(opts),
		newMermaidCmd(opts),
		newRenderCmd(opts),
		newDecodeCmd(opts),
		newSetCmd(opts),
		newFmtCmd(opts),
		newMessagesCmd(opts),
		newServeCmd(opts),
		newMCPCmd(opts),
		newWatchCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// openWorkspace opens the workspace named by the persistent flags.
func openWorkspace(cmd *cobra.Command, opts *cli.Options) (*hawtio.Workspace, func() error, error) {
	logger, err := cli.NewLogger(*opts)
	if err != nil {
		return nil, nil, err
	}
	return cli.OpenWorkspace(cmd.Context(), *opts, logger)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func routeArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
