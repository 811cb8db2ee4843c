package deps

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/nimgraph/pkg/errors"
	"github.com/matzehuels/nimgraph/pkg/integrations/github"
)

const (
	DefaultLockfileName = "nimble.lock" // Lockfile searched for under the root
	DefaultManifestExt  = ".nimble"     // Manifest file extension
)

// Options configures a scan.
type Options struct {
	LockfileName string      // Lockfile name (default: nimble.lock)
	ManifestExt  string      // Manifest extension (default: .nimble)
	Exclude      []string    // Directory names skipped during discovery
	PerDirectory bool        // Choose lockfile vs manifest per directory
	SkipRefresh  bool        // Do not refresh the registry index first
	Logger       *log.Logger // Diagnostics sink (default: log.Default())
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.LockfileName == "" {
		opts.LockfileName = DefaultLockfileName
	}
	if opts.ManifestExt == "" {
		opts.ManifestExt = DefaultManifestExt
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return opts
}

// Mode records which extraction strategy a scan used.
type Mode string

const (
	ModeNone         Mode = "none"
	ModeLockfile     Mode = "lockfile"
	ModeManifest     Mode = "manifest"
	ModePerDirectory Mode = "per-directory"
)

// Stats summarizes a finished scan.
type Stats struct {
	Mode             Mode
	Lockfiles        int // Lockfiles extracted
	Manifests        int // Manifests extracted successfully
	SkippedManifests int // Manifests whose dump failed
	Degraded         int // Records emitted with a bare name as URL
}

// Result is the outcome of [Resolver.Resolve].
type Result struct {
	Root  *Root
	Stats Stats
}

// Resolver runs the whole scan for one project root. It is not safe for
// concurrent use; calls to the package manager are made one at a time.
type Resolver struct {
	fs   afero.Fs
	pm   PackageManager
	opts Options
}

// NewResolver creates a Resolver reading files from fsys and querying pm.
func NewResolver(fsys afero.Fs, pm PackageManager, opts Options) *Resolver {
	return &Resolver{fs: fsys, pm: pm, opts: opts.WithDefaults()}
}

// Resolve scans root and returns the record tree for rootURL.
//
// rootURL is used verbatim; it is not canonicalized before self-reference
// checks, so a non-canonical value only triggers a warning.
func (r *Resolver) Resolve(ctx context.Context, root, rootURL string) (*Result, error) {
	logger := r.opts.Logger

	if !r.opts.SkipRefresh {
		if err := r.pm.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("registry refresh failed", "err", err)
		}
	}

	if !github.IsCanonical(rootURL) {
		logger.Warn("repository is not in canonical form, self-references may not be excluded",
			"repository", rootURL, "canonical", github.Canonicalize(rootURL))
	}

	files, err := Discover(r.fs, root, r.opts)
	if err != nil {
		return nil, err
	}

	res := &Result{Root: NewRoot(rootURL), Stats: Stats{Mode: ModeNone}}
	if r.opts.PerDirectory {
		err = r.resolvePerDirectory(ctx, root, files, res)
	} else {
		err = r.resolveGlobal(ctx, root, files, res)
	}
	if err != nil {
		return nil, err
	}
	res.Stats.Degraded = res.Root.Degraded()
	return res, nil
}

// resolveGlobal reads every lockfile if there is at least one, and falls
// back to every manifest otherwise. The two sources are never mixed.
func (r *Resolver) resolveGlobal(ctx context.Context, root string, files Files, res *Result) error {
	logger := r.opts.Logger

	lockfiles := files.Lockfiles()
	logFiles(logger, "lockfiles", lockfiles)
	if len(lockfiles) > 0 {
		res.Stats.Mode = ModeLockfile
		for _, path := range lockfiles {
			if err := r.lockfile(root, path, res); err != nil {
				return err
			}
		}
		return nil
	}

	manifests := files.Manifests()
	if len(manifests) == 0 {
		logger.Warn("no lockfile or manifest found", "root", root,
			"lockfile", r.opts.LockfileName, "manifest", "*"+r.opts.ManifestExt)
		return nil
	}
	logFiles(logger, "manifests", manifests)

	res.Stats.Mode = ModeManifest
	for _, path := range manifests {
		if err := r.manifest(ctx, root, path, res); err != nil {
			return err
		}
	}
	return nil
}

// resolvePerDirectory visits files in walk order, reading a manifest only
// when its own directory holds no lockfile.
func (r *Resolver) resolvePerDirectory(ctx context.Context, root string, files Files, res *Result) error {
	logger := r.opts.Logger

	locked := make(map[string]bool)
	for _, path := range files.Lockfiles() {
		locked[filepath.Dir(path)] = true
	}
	logFiles(logger, "lockfiles", files.Lockfiles())
	logFiles(logger, "manifests", files.Manifests())

	if len(files.All) == 0 {
		logger.Warn("no lockfile or manifest found", "root", root,
			"lockfile", r.opts.LockfileName, "manifest", "*"+r.opts.ManifestExt)
		return nil
	}

	res.Stats.Mode = ModePerDirectory
	for _, f := range files.All {
		switch {
		case f.Kind == KindLockfile:
			if err := r.lockfile(root, f.Path, res); err != nil {
				return err
			}
		case locked[filepath.Dir(f.Path)]:
			logger.Debug("manifest shadowed by lockfile", "manifest", relPath(root, f.Path))
		default:
			if err := r.manifest(ctx, root, f.Path, res); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resolver) lockfile(root, path string, res *Result) error {
	records, err := ExtractLockfile(r.fs, root, path, res.Root.URL)
	if err != nil {
		return err
	}
	res.Root.Add(records...)
	res.Stats.Lockfiles++
	return nil
}

// manifest extracts one manifest. A failed dump is logged and skipped;
// only cancellation is returned.
func (r *Resolver) manifest(ctx context.Context, root, path string, res *Result) error {
	records, err := ExtractManifest(ctx, r.pm, root, path, res.Root.URL, r.opts.Logger)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		kv := []any{"manifest", relPath(root, path), "err", err}
		var ee *errors.ExitError
		if stderrors.As(err, &ee) && strings.TrimSpace(ee.Stdout) != "" {
			kv = append(kv, "stdout", strings.TrimSpace(ee.Stdout))
		}
		r.opts.Logger.Error("skipping manifest", kv...)
		res.Stats.SkippedManifests++
		return nil
	}
	res.Root.Add(records...)
	res.Stats.Manifests++
	return nil
}
