package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	hawtio "github.com/woq-blended/hawtio-integration"
	"github.com/woq-blended/hawtio-integration/internal/adapters/file"
	"github.com/woq-blended/hawtio-integration/internal/cli"
	"github.com/woq-blended/hawtio-integration/internal/expressions"
	"github.com/woq-blended/hawtio-integration/pkg/domain"
)

func newDecodeCmd(opts *cli.Options) *cobra.Command {
	var (
		program string
		lines   bool
	)

	cmd := &cobra.Command{
		Use:   "decode <step-key>",
		Short: "Decode a step into its property record",
		Long: `Prints the property record of the step with the given outline key as JSON.
Use --jq to project the record, e.g. --jq '.expression.language'. With --lines
every jq output is printed as compact JSON on its own line.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			rec, err := ws.Decode(args[0])
			if err != nil {
				return err
			}
			if program == "" {
				return printJSON(cmd.OutOrStdout(), rec)
			}

			jq := expressions.NewJQ()
			if !lines {
				out, err := jq.Evaluate(cmd.Context(), program, rec.AsMap())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			}

			results, err := jq.EvaluateAll(cmd.Context(), program, rec.AsMap())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			for _, r := range results {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&program, "jq", "", "jq program applied to the record")
	cmd.Flags().BoolVar(&lines, "lines", false, "print each jq output on its own line")
	return cmd
}

func newSetCmd(opts *cli.Options) *cobra.Command {
	var write, dryRun bool

	cmd := &cobra.Command{
		Use:   "set <step-key> <record-json|->",
		Short: "Write a property record back into a step",
		Long: `Encodes the record (a JSON object, or '-' to read it from stdin) into the step
with the given outline key and prints the resulting XML of the step.
With --write the document is saved back to --file. With --dry-run only the
changed and removed properties are printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := []byte(args[1])
			if args[1] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				raw = data
			}
			rec := domain.NewRecord()
			if err := json.Unmarshal(raw, rec); err != nil {
				return fmt.Errorf("invalid record: %w", err)
			}

			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			if dryRun {
				diff, err := ws.Changes(args[0], rec)
				if err != nil {
					return err
				}
				if diff.IsEmpty() {
					diff = &domain.RecordDiff{}
				}
				return printJSON(cmd.OutOrStdout(), diff)
			}

			xml, err := ws.Update(cmd.Context(), args[0], rec)
			if err != nil {
				return err
			}
			if write {
				if err := ws.Save(cmd.Context()); err != nil {
					return err
				}
				cli.PrintSystemMessage(cmd.ErrOrStderr(), "Saved '%s'.", opts.File)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), xml)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Save the document after the update")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the property changes without applying them")
	return cmd
}

func newFmtCmd(opts *cli.Options) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Print the route document as hawtio writes it",
		Long:  `Loads the document and prints it back. With --write the file is rewritten in place.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, done, err := openWorkspace(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			if write {
				return ws.Save(cmd.Context())
			}
			xml, err := ws.XML()
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), xml)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Rewrite --file instead of printing")
	return cmd
}

func newMessagesCmd(opts *cli.Options) *cobra.Command {
	return &cobra.Command{
		Use:   "messages <dump.xml|->",
		Short: "Parse a trace or debug message dump",
		Long: `Parses a <messages> dump produced by the Camel tracer or debugger and prints
the messages as JSON. Bodies are truncated to camelMaximumTraceOrDebugBodyLength.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}

			s, err := cli.ParseSettings(opts.Set)
			if err != nil {
				return err
			}
			// Parsing a dump does not need the route document to be loaded.
			ws := hawtio.New(file.New(opts.File), hawtio.WithSettings(s))
			msgs, err := ws.Messages(string(data))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), msgs)
		},
	}
}
