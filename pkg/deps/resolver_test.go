package deps

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/matzehuels/nimgraph/pkg/errors"
)

const karaxManifest = "/src/project/project.nimble"

func manifestPM() *fakePM {
	return &fakePM{
		dumps: map[string]*ManifestInfo{
			karaxManifest: {Requires: []Requirement{
				{Name: "https://github.com/karaxnim/karax", Constraint: ">= 1.3.0"},
				{Name: "jester", Constraint: ">= 0.5.0"},
			}},
		},
		entries: map[string]*RegistryEntry{
			"jester": {Name: "jester", URL: "https://github.com/dom96/jester"},
		},
	}
}

func TestResolveLockfile(t *testing.T) {
	lock := `{"version": 1, "packages": {
		"project": {"version": "1.0.0", "url": "https://github.com/me/project"},
		"zippy": {"version": "0.10.4", "url": "https://github.com/guzba/zippy"}
	}}`
	fsys := memFS(t, map[string]string{"/src/project/nimble.lock": lock})
	pm := &fakePM{}

	res, err := NewResolver(fsys, pm, Options{}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if res.Root.URL != selfURL {
		t.Errorf("Root.URL = %q, want %q", res.Root.URL, selfURL)
	}
	if res.Root.Len() != 1 {
		t.Fatalf("got %d records, want 1: %+v", res.Root.Len(), res.Root.Deps)
	}
	if d := res.Root.Deps[0]; d.URL != "github.com/guzba/zippy" || d.Manifest != "nimble.lock" {
		t.Errorf("record = %+v", d)
	}
	if res.Stats.Mode != ModeLockfile || res.Stats.Lockfiles != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if pm.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", pm.refreshes)
	}
}

func TestResolveManifest(t *testing.T) {
	fsys := memFS(t, map[string]string{karaxManifest: `version = "0.1.0"`})
	pm := manifestPM()

	res, err := NewResolver(fsys, pm, Options{}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if res.Root.Len() != 2 {
		t.Fatalf("got %d records, want 2: %+v", res.Root.Len(), res.Root.Deps)
	}
	for _, d := range res.Root.Deps {
		if d.Manifest != "project.nimble" {
			t.Errorf("Manifest = %q, want %q", d.Manifest, "project.nimble")
		}
	}
	if res.Root.Deps[0].Name != "karax" || res.Root.Deps[1].Name != "jester" {
		t.Errorf("order = %q, %q; want karax, jester", res.Root.Deps[0].Name, res.Root.Deps[1].Name)
	}
	if res.Stats.Mode != ModeManifest || res.Stats.Manifests != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestResolveLockfileWins(t *testing.T) {
	fsys := memFS(t, map[string]string{
		karaxManifest:                     `version = "0.1.0"`,
		"/src/project/tools/nimble.lock":  lockfileJSON,
		"/src/project/tools/tools.nimble": `version = "0.1.0"`,
	})
	pm := manifestPM()

	res, err := NewResolver(fsys, pm, Options{}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if len(pm.dumped) != 0 || len(pm.searched) != 0 {
		t.Errorf("manifest path was used: dumped=%v searched=%v", pm.dumped, pm.searched)
	}
	for _, d := range res.Root.Deps {
		if d.Manifest != "tools/nimble.lock" {
			t.Errorf("record %+v not sourced from the lockfile", d)
		}
	}
	if res.Root.Len() != 2 {
		t.Errorf("got %d records, want 2", res.Root.Len())
	}
}

func TestResolveNothingFound(t *testing.T) {
	fsys := memFS(t, map[string]string{"/src/project/README.md": "# project"})
	var buf bytes.Buffer

	res, err := NewResolver(fsys, &fakePM{}, Options{Logger: testLogger(&buf)}).
		Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Root.Len() != 0 || res.Root.Deps == nil {
		t.Errorf("Deps = %#v, want empty non-nil slice", res.Root.Deps)
	}
	if res.Stats.Mode != ModeNone {
		t.Errorf("Mode = %q, want %q", res.Stats.Mode, ModeNone)
	}
	if !strings.Contains(buf.String(), "no lockfile or manifest found") {
		t.Errorf("missing diagnostic, got:\n%s", buf.String())
	}
}

func TestResolveRefreshFailure(t *testing.T) {
	fsys := memFS(t, map[string]string{karaxManifest: ""})
	pm := manifestPM()
	pm.refreshErr = stderrors.New("network unreachable")

	res, err := NewResolver(fsys, pm, Options{}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if res.Root.Len() != 2 {
		t.Errorf("got %d records, want 2", res.Root.Len())
	}
}

func TestResolveSkipRefresh(t *testing.T) {
	fsys := memFS(t, map[string]string{karaxManifest: ""})
	pm := manifestPM()

	if _, err := NewResolver(fsys, pm, Options{SkipRefresh: true}).Resolve(context.Background(), "/src/project", selfURL); err != nil {
		t.Fatal(err)
	}
	if pm.refreshes != 0 {
		t.Errorf("refreshes = %d, want 0", pm.refreshes)
	}
}

func TestResolveSkipsFailedManifest(t *testing.T) {
	fsys := memFS(t, map[string]string{
		"/src/project/a/broken.nimble": "",
		karaxManifest:                  "",
	})
	pm := manifestPM()
	pm.dumpErrs = map[string]error{
		"/src/project/a/broken.nimble": &errors.ExitError{
			Command:  "nimble dump",
			ExitCode: 1,
			Stdout:   "Error: Could not read package info file\n",
		},
	}
	var buf bytes.Buffer

	res, err := NewResolver(fsys, pm, Options{Logger: testLogger(&buf)}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(pm.dumped) != 2 {
		t.Errorf("dumped = %v, want both manifests", pm.dumped)
	}
	if res.Root.Len() != 2 {
		t.Errorf("got %d records, want 2", res.Root.Len())
	}
	if res.Stats.SkippedManifests != 1 || res.Stats.Manifests != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if !strings.Contains(buf.String(), "Could not read package info file") {
		t.Errorf("dump stdout not logged, got:\n%s", buf.String())
	}
}

func TestResolveMalformedLockfileAborts(t *testing.T) {
	fsys := memFS(t, map[string]string{
		"/src/project/a/nimble.lock": lockfileJSON,
		"/src/project/b/nimble.lock": "{not json",
	})

	_, err := NewResolver(fsys, &fakePM{}, Options{}).Resolve(context.Background(), "/src/project", selfURL)
	if !errors.Is(err, errors.ErrCodeInvalidLockfile) {
		t.Errorf("error = %v, want %v", err, errors.ErrCodeInvalidLockfile)
	}
}

func TestResolveDegradedStats(t *testing.T) {
	fsys := memFS(t, map[string]string{karaxManifest: ""})
	pm := manifestPM()
	delete(pm.entries, "jester")

	res, err := NewResolver(fsys, pm, Options{}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Degraded != 1 {
		t.Errorf("Degraded = %d, want 1", res.Stats.Degraded)
	}
}

func TestResolvePerDirectory(t *testing.T) {
	fsys := memFS(t, map[string]string{
		"/src/project/project.nimble":     "",
		"/src/project/tools/nimble.lock":  lockfileJSON,
		"/src/project/tools/tools.nimble": "",
	})
	pm := &fakePM{
		dumps: map[string]*ManifestInfo{
			"/src/project/project.nimble": {Requires: []Requirement{{Name: "https://github.com/dom96/jester", Constraint: ""}}},
		},
	}

	res, err := NewResolver(fsys, pm, Options{PerDirectory: true}).Resolve(context.Background(), "/src/project", selfURL)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	if len(pm.dumped) != 1 || pm.dumped[0] != "/src/project/project.nimble" {
		t.Errorf("dumped = %v, want only the unlocked manifest", pm.dumped)
	}
	var sources []string
	for _, d := range res.Root.Deps {
		sources = append(sources, d.Manifest)
	}
	want := []string{"project.nimble", "tools/nimble.lock", "tools/nimble.lock"}
	if strings.Join(sources, ",") != strings.Join(want, ",") {
		t.Errorf("sources = %v, want %v", sources, want)
	}
	if res.Stats.Mode != ModePerDirectory {
		t.Errorf("Mode = %q, want %q", res.Stats.Mode, ModePerDirectory)
	}
}

func TestResolveIdempotent(t *testing.T) {
	fsys := memFS(t, map[string]string{
		karaxManifest:                 "",
		"/src/project/b/other.nimble": "",
	})

	run := func() []byte {
		res, err := NewResolver(fsys, manifestPM(), Options{}).Resolve(context.Background(), "/src/project", selfURL)
		if err != nil {
			t.Fatal(err)
		}
		data, err := json.Marshal(res.Root)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	first, second := run(), run()
	if !bytes.Equal(first, second) {
		t.Errorf("outputs differ:\n%s\n%s", first, second)
	}
}

func TestResolveNonCanonicalRootWarns(t *testing.T) {
	var buf bytes.Buffer
	fsys := memFS(t, nil)
	_ = fsys.MkdirAll("/src/project", 0o755)

	_, err := NewResolver(fsys, &fakePM{}, Options{Logger: testLogger(&buf)}).
		Resolve(context.Background(), "/src/project", "https://github.com/Me/Project.git")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "not in canonical form") {
		t.Errorf("expected canonical form warning, got:\n%s", buf.String())
	}
}
