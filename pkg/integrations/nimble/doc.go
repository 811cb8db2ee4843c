// Package nimble runs the nimble package manager as a subprocess.
//
// [Client] implements [deps.PackageManager] on top of three commands:
//
//	nimble refresh              update the local package list
//	nimble dump --json <file>   report a manifest's requirements
//	nimble search <name>        look a package up in the package list
//
// Every command is run with the caller's context, so cancelling the
// context kills the process. Anything a command writes to stderr is
// surfaced on the logger at info level; stdout is parsed.
//
// Search output is not quite YAML: free-text description values are not
// quoted and break the parser, so those lines are dropped before
// decoding. Search results are memoised in a [cache.Cache] under
// [cache.SearchKey]; failed lookups are never cached.
package nimble
