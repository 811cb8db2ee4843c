package deps

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/matzehuels/nimgraph/pkg/errors"
	"github.com/matzehuels/nimgraph/pkg/integrations/github"
)

// ExtractLockfile reads the lockfile at path and returns one record per
// locked package, in file order. Packages whose canonical URL equals
// rootURL are left out. Any read or decode failure is returned as an
// INVALID_LOCKFILE error.
func ExtractLockfile(fsys afero.Fs, root, path, rootURL string) ([]Dependency, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "read %s", path)
	}

	pkgs, err := parseLockfile(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", path)
	}

	manifest := relPath(root, path)
	var out []Dependency
	for _, p := range pkgs {
		url := github.Canonicalize(*p.URL)
		if url == rootURL {
			continue
		}
		out = append(out, Dependency{
			Name:     p.name,
			URL:      url,
			Version:  *p.Version,
			Deps:     []Dependency{},
			Manifest: manifest,
		})
	}
	return out, nil
}

type lockFile struct {
	Version  int             `json:"version"`
	Packages json.RawMessage `json:"packages"`
}

type lockPackage struct {
	name string

	Version        *string           `json:"version"`
	VCSRevision    string            `json:"vcsRevision"`
	URL            *string           `json:"url"`
	DownloadMethod string            `json:"downloadMethod"`
	Dependencies   []string          `json:"dependencies"`
	Checksums      map[string]string `json:"checksums"`
}

// parseLockfile decodes the packages object key by key so that the
// returned slice keeps the order of the file.
func parseLockfile(data []byte) ([]lockPackage, error) {
	var lock lockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	if len(lock.Packages) == 0 || bytes.Equal(lock.Packages, []byte("null")) {
		return nil, fmt.Errorf("missing packages")
	}

	dec := json.NewDecoder(bytes.NewReader(lock.Packages))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("packages: expected object, got %v", tok)
	}

	var pkgs []lockPackage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("packages: unexpected key %v", tok)
		}

		var p lockPackage
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("package %s: %w", name, err)
		}
		if p.URL == nil {
			return nil, fmt.Errorf("package %s: missing url", name)
		}
		if p.Version == nil {
			return nil, fmt.Errorf("package %s: missing version", name)
		}
		p.name = name
		pkgs = append(pkgs, p)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return pkgs, nil
}
