package deps

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/nimgraph/pkg/errors"
)

// fakePM is an in-memory PackageManager that records every call.
type fakePM struct {
	refreshErr error
	dumps      map[string]*ManifestInfo
	dumpErrs   map[string]error
	entries    map[string]*RegistryEntry

	refreshes int
	dumped    []string
	searched  []string
}

var _ PackageManager = (*fakePM)(nil)

func (f *fakePM) Refresh(context.Context) error {
	f.refreshes++
	return f.refreshErr
}

func (f *fakePM) Dump(_ context.Context, path string) (*ManifestInfo, error) {
	f.dumped = append(f.dumped, path)
	if err, ok := f.dumpErrs[path]; ok {
		return nil, err
	}
	if info, ok := f.dumps[path]; ok {
		return info, nil
	}
	return &ManifestInfo{}, nil
}

func (f *fakePM) Search(_ context.Context, name string) (*RegistryEntry, error) {
	f.searched = append(f.searched, name)
	if e, ok := f.entries[name]; ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeNotFound, "no registry entry for %s", name)
}

// memFS builds an in-memory tree from path -> content pairs.
func memFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return fsys
}

// testLogger returns a logger writing to buf so tests can inspect output.
func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

const lockfileJSON = `{
  "version": 1,
  "packages": {
    "zippy": {
      "version": "0.10.4",
      "vcsRevision": "a99f6a7d8a8e3e0213b3cad0daf0ea974bf58e3f",
      "url": "https://github.com/guzba/zippy",
      "downloadMethod": "git",
      "dependencies": [],
      "checksums": {"sha1": "4bfbf8e4a7e0fc3a4d6b0b1f8d3a4f2d2b7f5c3e"}
    },
    "project": {
      "version": "1.0.0",
      "vcsRevision": "0000000000000000000000000000000000000000",
      "url": "https://github.com/Me/Project.git",
      "downloadMethod": "git",
      "dependencies": ["zippy"],
      "checksums": {}
    },
    "jsony": {
      "version": "1.1.5",
      "vcsRevision": "ea811bec7fa50f5abd3088ba94cda74285e93f18",
      "url": "https://github.com/treeform/jsony.git",
      "downloadMethod": "git",
      "dependencies": [],
      "checksums": {}
    }
  }
}`

const selfURL = "github.com/me/project"
