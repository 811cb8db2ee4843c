package github

import (
	"regexp"
	"strings"
)

// Host is the forge domain recognized by [Match] and [Canonicalize].
const Host = "github.com"

// repoURLPattern finds host/owner/repo anywhere on the first line. The
// leading greedy ".*" makes the last occurrence on that line win.
var repoURLPattern = regexp.MustCompile(`^.*(?i:github\.com)/([^/]+)/([^/\s?#]+)`)

// Match reports whether s contains a GitHub repository reference and
// returns its owner and repo segments exactly as written.
func Match(s string) (owner, repo string, ok bool) {
	m := repoURLPattern.FindStringSubmatch(s)
	if len(m) < 3 {
		return "", "", false
	}
	return m[1], m[2], true
}

// Canonicalize maps a repository URL to "github.com/owner/repo" in lower
// case. A trailing ".git" on the repo segment is dropped, so a repository
// whose real name ends in ".git" is misnormalized. Strings that do not
// reference GitHub are returned unchanged.
func Canonicalize(original string) string {
	owner, repo, ok := Match(original)
	if !ok {
		return original
	}
	repo = strings.TrimSuffix(repo, ".git")
	return strings.ToLower(Host + "/" + owner + "/" + repo)
}

// IsCanonical reports whether s is already in the form produced by
// [Canonicalize].
func IsCanonical(s string) bool {
	_, _, ok := Match(s)
	return ok && Canonicalize(s) == s
}
