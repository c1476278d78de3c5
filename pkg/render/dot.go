// Package render turns a scene into shareable artifacts: Graphviz DOT
// and SVG for structural diagrams, and raster snapshots that reproduce
// the canvas geometry.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/ideamap/ideamap/pkg/scene"
)

// ToDOT converts a scene to Graphviz DOT. Groups become clusters, edge
// arrow settings map to Graphviz dir attributes, and dashed or dotted
// styles carry over. The resulting string renders with [RenderSVG].
func ToDOT(sc *scene.Scene) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	grouped := make(map[string][]*scene.Node)
	var loose []*scene.Node
	for _, n := range sc.Nodes() {
		if n.IsGroup() {
			continue
		}
		if n.ParentID != "" {
			grouped[n.ParentID] = append(grouped[n.ParentID], n)
		} else {
			loose = append(loose, n)
		}
	}

	for _, n := range loose {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}
	clusterIdx := 0
	for _, g := range sc.Nodes() {
		members := grouped[g.ID]
		if !g.IsGroup() || len(members) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", clusterIdx)
		clusterIdx++
		fmt.Fprintf(&buf, "    label=%q;\n", g.Title)
		buf.WriteString("    style=dashed;\n")
		for _, n := range members {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range sc.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *scene.Node) []string {
	label := n.Title
	if label == "" {
		label = n.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
	}
	return attrs
}

func edgeAttrs(e *scene.Edge) []string {
	var attrs []string
	switch e.Arrow {
	case scene.ArrowNone:
		attrs = append(attrs, "dir=none")
	case scene.ArrowFrom:
		attrs = append(attrs, "dir=back")
	case scene.ArrowBoth:
		attrs = append(attrs, "dir=both")
	}
	switch e.Style {
	case scene.StyleDashed:
		attrs = append(attrs, "style=dashed")
	case scene.StyleDotted:
		attrs = append(attrs, "style=dotted")
	}
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	if e.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", e.Color))
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "dir=forward")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

// normalizeViewBox rewrites the SVG root so the view box starts at the
// origin; some viewers clip content when it doesn't.
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
