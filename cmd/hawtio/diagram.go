package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/woq-blended/hawtio-integration/internal/cli"
	"github.com/woq-blended/hawtio-integration/internal/presentation/graph"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

func newDiagramCmd(opts *cli.Options) *cobra.Command {
	var (
		where     string
		highlight string
		format    string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "diagram [route-id]",
		Short: "Build the flow diagram of the routes",
		Long: `Builds the diagram of every route (or of the given route) and prints it.

  --where     prints only the nodes matching an expression, e.g. 'step == "to"'
  --highlight marks the nodes of a route id or step key as selected
  --format    json (default), mermaid, svg or png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			ctx := cmd.Context()
			routeID := routeArg(args)

			if where != "" {
				nodes, err := ws.Query(ctx, routeID, where)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), nodes)
			}

			var d *domain.Diagram
			if highlight != "" {
				d, _, err = ws.Highlight(ctx, routeID, highlight)
			} else {
				d, err = ws.Diagram(ctx, routeID)
			}
			if err != nil {
				return err
			}
			return writeDiagram(cmd, d, format, output)
		},
	}
	cmd.Flags().StringVar(&where, "where", "", "Node filter expression")
	cmd.Flags().StringVar(&highlight, "highlight", "", "Route id or step key to select")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json, mermaid, svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newMermaidCmd(opts *cli.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "mermaid [route-id]",
		Short: "Export the flow diagram as Mermaid",
		Long:  `Builds the diagram and outputs a Mermaid flowchart (graph TD).`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			d, err := ws.Diagram(cmd.Context(), routeArg(args))
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), graph.GenerateMermaid(d, nil))
			return err
		},
	}
}

func newRenderCmd(opts *cli.Options) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "render [route-id]",
		Short: "Render the flow diagram as an image with Graphviz",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != string(graph.FormatSVG) && format != string(graph.FormatPNG) {
				return fmt.Errorf("unknown image format %q, expected svg or png", format)
			}
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			d, err := ws.Diagram(cmd.Context(), routeArg(args))
			if err != nil {
				return err
			}
			return writeDiagram(cmd, d, format, output)
		},
	}
	cmd.Flags().StringVar(&format, "format", "svg", "Image format: svg or png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func writeDiagram(cmd *cobra.Command, d *domain.Diagram, format, output string) error {
	var data []byte
	switch format {
	case "", "json":
		if output == "" {
			return printJSON(cmd.OutOrStdout(), d)
		}
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		return printJSON(f, d)
	case "mermaid":
		data = []byte(graph.GenerateMermaid(d, nil))
	case string(graph.FormatSVG), string(graph.FormatPNG):
		img, err := graph.RenderImage(cmd.Context(), d, graph.Format(format))
		if err != nil {
			return err
		}
		data = img
	default:
		return fmt.Errorf("unknown format %q", format)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
