package deps

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// FileKind distinguishes the two kinds of project files the scanner reads.
type FileKind int

const (
	KindLockfile FileKind = iota
	KindManifest
)

func (k FileKind) String() string {
	if k == KindLockfile {
		return "lockfile"
	}
	return "manifest"
}

// File is a project file found under the scan root.
type File struct {
	Path string   // Path as produced by the walk (root-joined)
	Kind FileKind // Lockfile or manifest
}

// Files holds everything [Discover] found, in walk order.
type Files struct {
	All []File
}

// Lockfiles returns the paths of all discovered lockfiles.
func (f Files) Lockfiles() []string { return f.paths(KindLockfile) }

// Manifests returns the paths of all discovered manifests.
func (f Files) Manifests() []string { return f.paths(KindManifest) }

func (f Files) paths(kind FileKind) []string {
	var out []string
	for _, file := range f.All {
		if file.Kind == kind {
			out = append(out, file.Path)
		}
	}
	return out
}

// Discover walks root and collects lockfiles and manifests. Directory
// entries are visited in lexical order. Unreadable entries are logged and
// skipped; directories named in opts.Exclude are not descended into.
func Discover(fsys afero.Fs, root string, opts Options) (Files, error) {
	opts = opts.WithDefaults()
	var files Files

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			opts.Logger.Warn("walk error", "path", path, "err", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if path != root && slices.Contains(opts.Exclude, info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		switch name := info.Name(); {
		case name == opts.LockfileName:
			files.All = append(files.All, File{Path: path, Kind: KindLockfile})
		case strings.HasSuffix(name, opts.ManifestExt):
			files.All = append(files.All, File{Path: path, Kind: KindManifest})
		}
		return nil
	})
	return files, err
}

// relPath renders path relative to root with forward slashes and no
// leading or trailing separators.
func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = strings.TrimPrefix(path, root)
	}
	return strings.Trim(filepath.ToSlash(rel), "/")
}

// logFiles lists discovered files on the logger.
func logFiles(logger *log.Logger, label string, paths []string) {
	logger.Info(label, "count", len(paths), "files", paths)
}
