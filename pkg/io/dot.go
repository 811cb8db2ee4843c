package io

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nimgraph/pkg/deps"
)

// ToDOT converts a tree to Graphviz DOT: one node per distinct URL and one
// edge from the root per record, labelled with the version.
//
// Degraded records are drawn dashed and grey.
func ToDOT(root *deps.Root) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, penwidth=2];\n", root.URL, root.URL)
	seen := map[string]bool{root.URL: true}
	for _, d := range root.Deps {
		if seen[d.URL] {
			continue
		}
		seen[d.URL] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", d.URL, strings.Join(nodeAttrs(d), ", "))
	}

	buf.WriteString("\n")
	for _, d := range root.Deps {
		if d.Version == "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", root.URL, d.URL)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", root.URL, d.URL, d.Version)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(d deps.Dependency) []string {
	label := d.URL
	if d.Name != "" && d.Name != d.URL {
		label = d.Name + "\n" + d.URL
	}
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("tooltip=%q", d.Manifest)}
	if d.Degraded {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the image scales from a
// zero-origin viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
