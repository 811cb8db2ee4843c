// Package config loads nimgraph settings from defaults, an optional config
// file, NIMGRAPH_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/matzehuels/nimgraph/pkg/cache"
	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/errors"
	pkgio "github.com/matzehuels/nimgraph/pkg/io"
)

// Keys understood in config files and, upper-cased with a NIMGRAPH_
// prefix and dots replaced by underscores, in the environment.
const (
	KeyNimble       = "nimble"
	KeyLockfile     = "lockfile"
	KeyManifestExt  = "manifest_ext"
	KeyRefresh      = "refresh"
	KeyPerDirectory = "per_directory"
	KeyExclude      = "exclude"
	KeyFormat       = "format"
	KeyCacheDir     = "cache.dir"
	KeyCacheTTL     = "cache.ttl"
	KeyNoCache      = "no_cache"
)

const (
	configName = "nimgraph"
	envPrefix  = "NIMGRAPH"
)

// Config is the resolved configuration of one run.
type Config struct {
	Nimble       string        // Package manager executable
	Lockfile     string        // Lockfile name searched for
	ManifestExt  string        // Manifest file extension
	Refresh      bool          // Refresh the registry index before scanning
	PerDirectory bool          // Pick lockfile or manifest per directory
	Exclude      []string      // Directory names skipped during discovery
	Format       pkgio.Format  // Output format
	CacheDir     string        // Persistent search cache; empty keeps it in memory
	CacheTTL     time.Duration // Lifetime of persistent cache entries
	NoCache      bool          // Disable the search cache entirely
	File         string        // Config file that was read, if any
}

// New returns a viper instance with every default set and environment
// lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyNimble, "nimble")
	v.SetDefault(KeyLockfile, deps.DefaultLockfileName)
	v.SetDefault(KeyManifestExt, deps.DefaultManifestExt)
	v.SetDefault(KeyRefresh, true)
	v.SetDefault(KeyPerDirectory, false)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyFormat, string(pkgio.FormatJSON))
	v.SetDefault(KeyCacheDir, "")
	v.SetDefault(KeyCacheTTL, cache.DefaultTTL)
	v.SetDefault(KeyNoCache, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and returns the validated config.
//
// With file set, that file must exist. Otherwise nimgraph.{toml,yaml,json}
// is looked up in the working directory and in the user config directory;
// finding none is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, configName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
		}
	}

	format, err := pkgio.ParseFormat(v.GetString(KeyFormat))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Nimble:       strings.TrimSpace(v.GetString(KeyNimble)),
		Lockfile:     v.GetString(KeyLockfile),
		ManifestExt:  v.GetString(KeyManifestExt),
		Refresh:      v.GetBool(KeyRefresh),
		PerDirectory: v.GetBool(KeyPerDirectory),
		Exclude:      v.GetStringSlice(KeyExclude),
		Format:       format,
		CacheDir:     v.GetString(KeyCacheDir),
		CacheTTL:     v.GetDuration(KeyCacheTTL),
		NoCache:      v.GetBool(KeyNoCache),
		File:         v.ConfigFileUsed(),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config can drive a scan.
func (c *Config) Validate() error {
	if c.Nimble == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s must not be empty", KeyNimble)
	}
	if c.Lockfile == "" || strings.ContainsAny(c.Lockfile, `/\`) {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be a plain file name, got %q", KeyLockfile, c.Lockfile)
	}
	if c.ManifestExt == "" {
		return errors.New(errors.ErrCodeInvalidInput, "%s must not be empty", KeyManifestExt)
	}
	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative", KeyCacheTTL)
	}
	if _, err := pkgio.ParseFormat(string(c.Format)); err != nil {
		return err
	}
	return nil
}

// ResolveOptions maps the config onto resolver options.
func (c *Config) ResolveOptions() deps.Options {
	return deps.Options{
		LockfileName: c.Lockfile,
		ManifestExt:  c.ManifestExt,
		Exclude:      c.Exclude,
		PerDirectory: c.PerDirectory,
		SkipRefresh:  !c.Refresh,
	}
}

// Cache opens the search cache the config asks for. A persistent cache
// lives on fsys.
func (c *Config) Cache(fsys afero.Fs) (cache.Cache, error) {
	switch {
	case c.NoCache:
		return cache.NewNullCache(), nil
	case c.CacheDir != "":
		return cache.NewFileCacheFs(fsys, c.CacheDir)
	default:
		return cache.NewMemoryCache(), nil
	}
}
