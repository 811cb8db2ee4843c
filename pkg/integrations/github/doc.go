// Package github canonicalizes GitHub repository references.
//
// Nimble lockfiles, manifests and registry entries refer to the same
// repository in many shapes:
//
//	https://github.com/Owner/Repo.git
//	git@github.com:... (not recognized, passed through)
//	https://github.com/owner/repo (git)
//	github.com/owner/repo#head
//
// [Canonicalize] maps every recognized shape to one comparable identifier,
// "github.com/owner/repo" in lower case, and leaves anything else
// untouched so callers can keep it as an opaque name.
package github
