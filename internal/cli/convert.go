package cli

import (
	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/nimgraph/pkg/io"
)

// convertCommand re-encodes a saved JSON tree without rescanning.
func (c *CLI) convertCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <tree.json>",
		Short: "Convert a saved dependency tree to another format",
		Example: `  nimgraph convert deps.json -f yaml
  nimgraph convert deps.json -f svg -o deps.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return pkgio.Write(ctx, root, c.Stdout, c.cfg.Format)
			}
			if err := pkgio.Export(ctx, root, output, c.cfg.Format); err != nil {
				return err
			}
			if !c.quiet {
				printSuccess(c.Stderr, "Converted %d dependencies", root.Len())
				printFile(c.Stderr, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringP("format", "f", "json", "output format: json, yaml, toml, dot, svg")
	return cmd
}
