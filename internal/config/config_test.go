package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/matzehuels/nimgraph/pkg/cache"
	"github.com/matzehuels/nimgraph/pkg/errors"
	pkgio "github.com/matzehuels/nimgraph/pkg/io"
)

func newTestViper(t *testing.T, files map[string]string) *viper.Viper {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	v := New()
	v.SetFs(fsys)
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newTestViper(t, nil), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Nimble != "nimble" || cfg.Lockfile != "nimble.lock" || cfg.ManifestExt != ".nimble" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Refresh || cfg.PerDirectory || cfg.NoCache {
		t.Errorf("flags = %+v", cfg)
	}
	if cfg.Format != pkgio.FormatJSON {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.CacheTTL != 24*time.Hour {
		t.Errorf("CacheTTL = %v, want 24h", cfg.CacheTTL)
	}
	if len(cfg.Exclude) != 0 {
		t.Errorf("Exclude = %v, want empty", cfg.Exclude)
	}
}

func TestLoadFile(t *testing.T) {
	v := newTestViper(t, map[string]string{
		"/etc/nimgraph.toml": `
nimble = "/opt/nim/bin/nimble"
refresh = false
per_directory = true
exclude = ["tests", "vendor"]
format = "yaml"

[cache]
dir = "/tmp/nimgraph-cache"
ttl = "1h"
`,
	})

	cfg, err := Load(v, "/etc/nimgraph.toml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Nimble != "/opt/nim/bin/nimble" || cfg.Refresh || !cfg.PerDirectory {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Exclude) != 2 || cfg.Exclude[1] != "vendor" {
		t.Errorf("Exclude = %v", cfg.Exclude)
	}
	if cfg.Format != pkgio.FormatYAML || cfg.CacheDir != "/tmp/nimgraph-cache" || cfg.CacheTTL != time.Hour {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.File != "/etc/nimgraph.toml" {
		t.Errorf("File = %q", cfg.File)
	}

	opts := cfg.ResolveOptions()
	if !opts.SkipRefresh || !opts.PerDirectory || len(opts.Exclude) != 2 {
		t.Errorf("ResolveOptions() = %+v", opts)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("NIMGRAPH_NIMBLE", "nimble-2")
	t.Setenv("NIMGRAPH_CACHE_TTL", "30m")
	t.Setenv("NIMGRAPH_FORMAT", "toml")

	cfg, err := Load(newTestViper(t, nil), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Nimble != "nimble-2" || cfg.CacheTTL != 30*time.Minute || cfg.Format != pkgio.FormatTOML {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		file  string
	}{
		{"missing explicit file", nil, "/nope.toml"},
		{"unparsable file", map[string]string{"/c.toml": "nimble = ["}, "/c.toml"},
		{"unknown format", map[string]string{"/c.toml": `format = "xml"`}, "/c.toml"},
		{"empty binary", map[string]string{"/c.toml": `nimble = " "`}, "/c.toml"},
		{"lockfile with path", map[string]string{"/c.toml": `lockfile = "a/nimble.lock"`}, "/c.toml"},
		{"negative ttl", map[string]string{"/c.toml": "[cache]\nttl = \"-1h\""}, "/c.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newTestViper(t, tt.files), tt.file)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if code := errors.GetCode(err); code != errors.ErrCodeInvalidInput && code != errors.ErrCodeInvalidFormat {
				t.Errorf("error code = %q, want INVALID_INPUT or INVALID_FORMAT", code)
			}
		})
	}
}

func TestCacheSelection(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"disabled", Config{NoCache: true, CacheDir: "/cache"}, "*cache.NullCache"},
		{"memory", Config{}, "*cache.MemoryCache"},
		{"file", Config{CacheDir: "/cache"}, "*cache.FileCache"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			c, err := tt.cfg.Cache(fsys)
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()
			var got string
			switch c.(type) {
			case *cache.NullCache:
				got = "*cache.NullCache"
			case *cache.MemoryCache:
				got = "*cache.MemoryCache"
			case *cache.FileCache:
				got = "*cache.FileCache"
			}
			if got != tt.want {
				t.Errorf("Cache() = %s, want %s", got, tt.want)
			}
			if ok, _ := afero.DirExists(fsys, "/cache"); ok != (tt.name == "file") {
				t.Errorf("cache dir created = %v", ok)
			}
		})
	}
}
