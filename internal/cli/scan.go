package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/errors"
	pkgio "github.com/matzehuels/nimgraph/pkg/io"
)

// scanOpts holds the command-line flags of a scan.
type scanOpts struct {
	input  string // project root directory
	output string // output file path (stdout if empty)
}

// scanCommand creates the scan command, which doubles as the root command.
func (c *CLI) scanCommand() *cobra.Command {
	var opts scanOpts

	cmd := &cobra.Command{
		Use:   appName + " <repository> -i <dir>",
		Short: "Harvest the dependencies of a nimble project",
		Long: `Harvest the direct dependencies of a nimble project as a JSON tree.

Lockfiles (nimble.lock) are preferred: if any exist under the input
directory, only they are read. Otherwise every *.nimble manifest is asked
for its requirements with "nimble dump", and bare package names are looked
up with "nimble search".

The repository argument identifies the project itself; dependencies that
resolve to it are left out. Pass it in canonical form, e.g.
github.com/owner/repo.`,
		Example: `  nimgraph github.com/me/project -i ./project
  nimgraph github.com/me/project -i ./project -o deps.json
  nimgraph github.com/me/project -i ./project -f svg -o deps.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "path to the nimble project root directory (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringP("format", "f", "json", "output format: json, yaml, toml, dot, svg")
	cmd.Flags().Bool("per-directory", false, "choose lockfile or manifests per directory")
	cmd.Flags().Bool("no-refresh", false, "skip \"nimble refresh\" before scanning")
	cmd.Flags().StringSlice("exclude", nil, "directory names to skip (repeatable)")
	cmd.Flags().String("lockfile", deps.DefaultLockfileName, "lockfile name")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagDirname("input")

	return cmd
}

func (c *CLI) runScan(cmd *cobra.Command, repository string, opts scanOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if err := errors.ValidateRepository(repository); err != nil {
		return err
	}
	if err := errors.ValidateDir(c.fs, opts.input); err != nil {
		return err
	}

	lookups, err := c.cfg.Cache(c.fs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open cache")
	}
	defer lookups.Close()

	resolveOpts := c.cfg.ResolveOptions()
	resolveOpts.Logger = logger
	pm := c.newPM(c.cfg, lookups, logger)

	prog := newProgress(logger)
	res, err := deps.NewResolver(c.fs, pm, resolveOpts).Resolve(ctx, opts.input, repository)
	if err != nil {
		return err
	}
	prog.done("scan finished")

	if opts.output == "" {
		if err := pkgio.Write(ctx, res.Root, c.Stdout, c.cfg.Format); err != nil {
			return err
		}
	} else if err := pkgio.Export(ctx, res.Root, opts.output, c.cfg.Format); err != nil {
		return err
	}

	if !c.quiet {
		printSummary(c.Stderr, res, opts.output)
	}
	return nil
}
