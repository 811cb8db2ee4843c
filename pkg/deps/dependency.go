package deps

// Dependency is one harvested dependency record.
type Dependency struct {
	Name     string       `json:"name" yaml:"name" toml:"name"`             // Package or repository short name
	URL      string       `json:"url" yaml:"url" toml:"url"`                // Canonical github.com/owner/repo, or best-effort raw string
	Version  string       `json:"version" yaml:"version" toml:"version"`    // Version or requirement string, unparsed
	Deps     []Dependency `json:"deps" yaml:"deps" toml:"deps"`             // Second-degree dependencies (not expanded yet)
	Manifest string       `json:"manifest" yaml:"manifest" toml:"manifest"` // Source file, relative to the scanned root

	// Degraded marks a record whose registry lookup failed, so URL holds
	// the bare name.
	Degraded bool `json:"-" yaml:"-" toml:"-"`
}

// Root is the record tree for one scanned repository.
type Root struct {
	URL  string       `json:"url" yaml:"url" toml:"url"`
	Deps []Dependency `json:"deps" yaml:"deps" toml:"deps"`
}

// NewRoot creates an empty tree for the repository identified by url.
// The url is kept verbatim.
func NewRoot(url string) *Root {
	return &Root{URL: url, Deps: []Dependency{}}
}

// Add appends records in the given order. Nothing is merged, sorted or
// deduplicated.
func (r *Root) Add(records ...Dependency) {
	for _, d := range records {
		if d.Deps == nil {
			d.Deps = []Dependency{}
		}
		r.Deps = append(r.Deps, d)
	}
}

// Len returns the number of records in the tree.
func (r *Root) Len() int { return len(r.Deps) }

// Degraded returns the number of records that carry a bare name as URL.
func (r *Root) Degraded() int {
	n := 0
	for _, d := range r.Deps {
		if d.Degraded {
			n++
		}
	}
	return n
}
