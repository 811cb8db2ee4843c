package nimble

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nimgraph/pkg/deps"
	"github.com/matzehuels/nimgraph/pkg/errors"
)

// searchEntry is one package block of "nimble search" output.
type searchEntry struct {
	URL string `yaml:"url"`
}

// parseSearch decodes search output and picks the block keyed by name. When
// the same key appears more than once the last block wins.
func parseSearch(out []byte, name string) (*deps.RegistryEntry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(stripDescriptions(out), &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "unreadable search output for %s", name)
	}

	node := lookupKey(&doc, name)
	if node == nil {
		return nil, errors.New(errors.ErrCodeNotFound, "no registry entry for %s", name)
	}

	var se searchEntry
	if err := node.Decode(&se); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "unreadable registry entry for %s", name)
	}

	entry := &deps.RegistryEntry{Name: name, URL: strings.TrimSpace(se.URL)}
	if i := strings.LastIndex(entry.URL, " ("); i >= 0 && strings.HasSuffix(entry.URL, ")") {
		entry.Method = entry.URL[i+2 : len(entry.URL)-1]
	}
	return entry, nil
}

// lookupKey returns the value of the last top-level mapping key equal to
// name, or nil.
func lookupKey(doc *yaml.Node, name string) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil
	}
	var found *yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == name {
			found = m.Content[i+1]
		}
	}
	return found
}

// stripDescriptions drops every line that contains "description:".
func stripDescriptions(out []byte) []byte {
	var buf bytes.Buffer
	for _, line := range bytes.Split(out, []byte("\n")) {
		if bytes.Contains(line, []byte("description:")) {
			continue
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
