// Package cli implements the nimgraph command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/nimgraph/internal/config"
	"github.com/matzehuels/nimgraph/pkg/buildinfo"
	"github.com/matzehuels/nimgraph/pkg/cache"
	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/integrations/nimble"
	"github.com/matzehuels/nimgraph/pkg/observability"
)

// appName is the application name used for config files and display.
const appName = "nimgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// pmFactory builds the package manager used by a scan.
type pmFactory func(cfg *config.Config, c cache.Cache, logger *log.Logger) deps.PackageManager

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Stdout io.Writer // Harvest output
	Stderr io.Writer // Summary and status lines

	fs    afero.Fs
	viper *viper.Viper
	cfg   *config.Config
	newPM pmFactory

	configFile string
	verbose    bool
	quiet      bool
}

// New creates a CLI writing data to stdout and diagnostics to stderr.
func New(stdout, stderr io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(stderr, level),
		Stdout: stdout,
		Stderr: stderr,
		fs:     afero.NewOsFs(),
		viper:  config.New(),
		newPM:  newNimble,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

func newNimble(cfg *config.Config, cc cache.Cache, logger *log.Logger) deps.PackageManager {
	return nimble.NewClient(cfg.Nimble,
		nimble.WithLogger(logger),
		nimble.WithCache(cc, cfg.CacheTTL))
}

// RootCommand creates the root cobra command. The root command itself runs
// a scan; maintenance commands hang off it.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.scanCommand()
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Stdout)
	root.SetErr(c.Stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: ./nimgraph.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.BoolVarP(&c.quiet, "quiet", "q", false, "only log warnings and errors")
	pf.String("nimble", "nimble", "nimble executable")
	pf.String("cache-dir", "", "persist registry lookups in this directory")
	pf.Bool("no-cache", false, "do not cache registry lookups")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return c.setup(cmd)
	}

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	return root
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"nimble":        config.KeyNimble,
	"cache-dir":     config.KeyCacheDir,
	"no-cache":      config.KeyNoCache,
	"format":        config.KeyFormat,
	"per-directory": config.KeyPerDirectory,
	"exclude":       config.KeyExclude,
	"lockfile":      config.KeyLockfile,
}

// setup configures logging and loads the config for cmd.
func (c *CLI) setup(cmd *cobra.Command) error {
	level := LogInfo
	switch {
	case c.verbose:
		level = LogDebug
	case c.quiet:
		level = LogWarn
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	observability.SetCommandHooks(&commandLogHooks{logger: c.Logger})

	flags := cmd.Flags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := c.viper.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	if f := flags.Lookup("no-refresh"); f != nil && f.Changed {
		skip, err := flags.GetBool("no-refresh")
		if err != nil {
			return err
		}
		c.viper.Set(config.KeyRefresh, !skip)
	}

	cfg, err := config.Load(c.viper, c.configFile)
	if err != nil {
		return err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	c.cfg = cfg
	return nil
}
