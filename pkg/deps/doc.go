// Package deps harvests the declared dependencies of a Nim project tree.
//
// # Overview
//
// A scan turns one checked-out source tree into a [Root]: the repository
// identity supplied by the caller plus a flat, ordered list of
// [Dependency] records. Records come from one of two sources:
//
//   - Lockfiles (nimble.lock): pinned url/version pairs, read directly.
//   - Manifests (*.nimble): requirements reported by the package manager,
//     where bare registry names need a second lookup to recover their
//     source repository.
//
// # Resolution
//
// [Resolver.Resolve] refreshes the package index once, searches the tree
// and picks a strategy. By default the choice is global: if any lockfile
// exists anywhere, only lockfiles are read. Otherwise every manifest is
// queried. With [Options.PerDirectory] the choice is made per directory
// instead.
//
// Every URL passes through [github.Canonicalize]; a record whose canonical
// URL equals the root URL is dropped so a project never depends on itself.
//
// # Failures
//
// A malformed lockfile aborts the scan. A manifest whose dump fails is
// logged and skipped. A bare name that cannot be looked up still yields a
// degraded record whose url is the name itself.
//
// # Package Manager
//
// The external tool is reached only through [PackageManager], so the
// extraction logic runs unchanged against a fake in tests.
//
// [github.Canonicalize]: github.com/matzehuels/nimgraph/pkg/integrations/github.Canonicalize
package deps
