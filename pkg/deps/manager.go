package deps

import "context"

// PackageManager is the capability the scanner needs from the external
// package manager. Each call blocks until the underlying process exits.
type PackageManager interface {
	// Refresh updates the local copy of the package registry index.
	Refresh(ctx context.Context) error
	// Dump reports the requirements declared by the manifest at path.
	Dump(ctx context.Context, path string) (*ManifestInfo, error)
	// Search looks up a bare package name in the registry. It returns an
	// error when the registry has no entry with exactly that name.
	Search(ctx context.Context, name string) (*RegistryEntry, error)
}

// ManifestInfo holds the parts of a manifest dump the scanner uses.
type ManifestInfo struct {
	Name     string        // Package name declared by the manifest
	Version  string        // Package version declared by the manifest
	Requires []Requirement // Requirements in declaration order
}

// Requirement is one declared requirement.
type Requirement struct {
	Name       string // Registry name or repository URL
	Constraint string // Requirement string as written, e.g. ">= 1.6.0"
}

// RegistryEntry is a registry record for one package.
type RegistryEntry struct {
	Name   string
	URL    string // Source repository, possibly with a trailing "(git)"
	Method string // Download method named in the trailing parentheses, if any
}
