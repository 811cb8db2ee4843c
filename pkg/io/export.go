package io

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists every supported format, default first.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatDOT, FormatSVG}

// ParseFormat validates a format name. The empty string selects JSON;
// "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return FormatJSON, nil
	case "yml":
		return FormatYAML, nil
	}
	if f := Format(s); slices.Contains(Formats, f) {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", s, formatList())
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Write encodes root to w in the given format.
func Write(ctx context.Context, root *deps.Root, w io.Writer, format Format) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(root, w)
	case FormatYAML:
		return writeYAML(root, w)
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(root); err != nil {
			return fmt.Errorf("encode toml: %w", err)
		}
		return nil
	case FormatDOT:
		_, err := io.WriteString(w, ToDOT(root))
		return err
	case FormatSVG:
		svg, err := RenderSVG(ctx, ToDOT(root))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// WriteJSON encodes root as indented JSON without HTML escaping.
func WriteJSON(root *deps.Root, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(normalized(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func writeYAML(root *deps.Root, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(normalized(root)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// Export writes root to a file at path.
// This is a convenience wrapper around [Write] for file-based output.
func Export(ctx context.Context, root *deps.Root, path string, format Format) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(ctx, root, f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// normalized returns root with every nil deps slice replaced by an empty one.
func normalized(root *deps.Root) *deps.Root {
	out := deps.NewRoot(root.URL)
	out.Add(root.Deps...)
	return out
}
