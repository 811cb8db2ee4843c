package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/errors"
)

// ReadJSON decodes a JSON tree as written by [WriteJSON].
//
// The input must be an object with a string "url"; "deps" may be missing
// or null and is read as empty. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*deps.Root, error) {
	var data deps.Root
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode tree")
	}
	if data.URL == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree has no url")
	}
	return normalized(&data), nil
}

// ImportJSON reads a JSON tree from the file at path.
func ImportJSON(path string) (*deps.Root, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
