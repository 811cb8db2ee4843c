package errors

import (
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

// ValidateDir checks that path exists on fsys and is a directory.
// The scanner calls it before any work starts.
func ValidateDir(fsys afero.Fs, path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "input directory cannot be empty")
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "readable_dir:%s is not a valid path", path)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "readable_dir:%s is not a valid path", path)
	}
	return nil
}

// ValidateRepository validates the repository identity given on the
// command line. The value is compared verbatim against canonical
// dependency URLs, so only emptiness and control characters are rejected.
func ValidateRepository(repo string) error {
	if strings.TrimSpace(repo) == "" {
		return New(ErrCodeInvalidInput, "repository cannot be empty")
	}
	for _, r := range repo {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "repository contains invalid control characters")
		}
	}
	return nil
}
