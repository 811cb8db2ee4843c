package nimble

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nimgraph/pkg/cache"
	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/errors"
	"github.com/matzehuels/nimgraph/pkg/observability"
)

// DefaultBinary is the executable looked up on PATH when none is given.
const DefaultBinary = "nimble"

// execCommand is replaced in tests.
var execCommand = exec.CommandContext

// Client talks to one nimble executable.
type Client struct {
	bin    string
	logger *log.Logger
	cache  cache.Cache
	ttl    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger that receives subprocess stderr.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCache memoises search results in cc for ttl (<= 0: no expiry).
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		if cc != nil {
			c.cache = cc
			c.ttl = ttl
		}
	}
}

// NewClient creates a client for bin (default: nimble). Without
// [WithCache] search results are not memoised.
func NewClient(bin string, opts ...Option) *Client {
	if bin == "" {
		bin = DefaultBinary
	}
	c := &Client{bin: bin, logger: log.Default(), cache: cache.NewNullCache()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ deps.PackageManager = (*Client)(nil)

// Refresh runs "nimble refresh".
func (c *Client) Refresh(ctx context.Context) error {
	_, err := c.run(ctx, "refresh")
	return err
}

// dumpOutput is the subset of "nimble dump --json" we read.
type dumpOutput struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Requires []struct {
		Name string `json:"name"`
		Str  string `json:"str"`
	} `json:"requires"`
}

// Dump runs "nimble dump --json path" and returns the declared requirements
// in order. Output that is not a JSON object is an INVALID_MANIFEST error.
func (c *Client) Dump(ctx context.Context, path string) (*deps.ManifestInfo, error) {
	out, err := c.run(ctx, "dump", "--json", path)
	if err != nil {
		return nil, err
	}

	var d dumpOutput
	if err := json.Unmarshal(out, &d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "decode dump of %s", path)
	}

	info := &deps.ManifestInfo{Name: d.Name, Version: d.Version}
	for _, r := range d.Requires {
		info.Requires = append(info.Requires, deps.Requirement{Name: r.Name, Constraint: r.Str})
	}
	return info, nil
}

// Search runs "nimble search name" and returns the entry whose key is
// exactly name. A missing entry is a NOT_FOUND error.
func (c *Client) Search(ctx context.Context, name string) (*deps.RegistryEntry, error) {
	key := cache.SearchKey(name)
	hooks := observability.Cache()

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var entry deps.RegistryEntry
		if json.Unmarshal(data, &entry) == nil {
			hooks.OnCacheHit(ctx, key)
			return &entry, nil
		}
	}
	hooks.OnCacheMiss(ctx, key)

	out, err := c.run(ctx, "search", name)
	if err != nil {
		return nil, err
	}
	entry, err := parseSearch(out, name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entry); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			hooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return entry, nil
}

// run executes one nimble command and returns its stdout.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{c.bin}, args...), " ")
	hooks := observability.Command()

	var stdout, stderr bytes.Buffer
	cmd := execCommand(ctx, c.bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	hooks.OnCommandStart(ctx, c.bin, args)
	start := time.Now()
	err := cmd.Run()
	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	hooks.OnCommandComplete(ctx, c.bin, args, exitCode, time.Since(start), err)

	if s := strings.TrimSpace(stderr.String()); s != "" {
		c.logger.Info("nimble stderr", "command", cmdline, "stderr", s)
	}

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var ee *exec.ExitError
		if stderrors.As(err, &ee) {
			return nil, &errors.ExitError{Command: cmdline, ExitCode: ee.ExitCode(), Stdout: stdout.String()}
		}
		return nil, errors.Wrap(errors.ErrCodeCommandFailed, err, "run %s", cmdline)
	}
	return stdout.Bytes(), nil
}
