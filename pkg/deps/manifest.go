package deps

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nimgraph/pkg/errors"
	"github.com/matzehuels/nimgraph/pkg/integrations/github"
)

// ExtractManifest asks pm for the requirements of the manifest at path and
// turns each one into a record.
//
// A requirement whose name is itself a GitHub URL is used directly, named
// after its repo segment. Any other name is looked up in the registry; if
// that lookup fails the record is still emitted, degraded, with the bare
// name as URL. Records whose canonical URL equals rootURL are left out.
//
// An error is returned only when the dump itself fails or ctx is done.
func ExtractManifest(ctx context.Context, pm PackageManager, root, path, rootURL string, logger *log.Logger) ([]Dependency, error) {
	if logger == nil {
		logger = log.Default()
	}

	info, err := pm.Dump(ctx, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCommandFailed, err, "dump %s", path)
	}
	if info == nil {
		return nil, nil
	}

	manifest := relPath(root, path)
	logger.Debug("dumped manifest", "manifest", manifest,
		"package", info.Name, "version", info.Version, "requires", len(info.Requires))

	var out []Dependency
	for _, req := range info.Requires {
		if _, repo, ok := github.Match(req.Name); ok {
			url := github.Canonicalize(req.Name)
			if url == rootURL {
				continue
			}
			out = append(out, Dependency{Name: repo, URL: url, Version: req.Constraint, Deps: []Dependency{}, Manifest: manifest})
			continue
		}

		entry, err := pm.Search(ctx, req.Name)
		if err == nil && entry.URL == "" {
			err = errors.New(errors.ErrCodeNotFound, "registry entry for %s has no url", req.Name)
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("failed to process dependency",
				"manifest", manifest,
				"name", req.Name,
				"requirement", req.Constraint,
				"err", err)
			out = append(out, Dependency{
				Name:     req.Name,
				URL:      req.Name,
				Version:  req.Constraint,
				Deps:     []Dependency{},
				Manifest: manifest,
				Degraded: true,
			})
			continue
		}

		url := github.Canonicalize(entry.URL)
		logger.Debug("resolved dependency", "name", req.Name, "url", url, "method", entry.Method)
		if url == rootURL {
			continue
		}
		out = append(out, Dependency{Name: req.Name, URL: url, Version: req.Constraint, Deps: []Dependency{}, Manifest: manifest})
	}
	return out, nil
}
