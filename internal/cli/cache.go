package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nimgraph/pkg/cache"
	"github.com/matzehuels/nimgraph/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the persistent registry lookup cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheDir returns the configured cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.CacheDir == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "no cache directory configured (use --cache-dir or cache.dir)")
	}
	return c.cfg.CacheDir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached registry lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}

			if ok, _ := afero.DirExists(c.fs, dir); !ok {
				printInfo(c.Stderr, "Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCacheFs(c.fs, dir)
			if err != nil {
				return err
			}
			count, err := fc.Clear()
			if err != nil {
				return err
			}

			printSuccess(c.Stderr, "Cleared %d cached entries", count)
			printDetail(c.Stderr, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Stdout, dir)
			return nil
		},
	}
}
