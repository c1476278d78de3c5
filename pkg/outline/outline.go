// Package outline exports a mind map as a markdown document. Edge
// direction defines the hierarchy: an edge From→To makes To a child of
// From in the outline.
package outline

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ideamap/ideamap/pkg/scene"
)

// maxHeadingLevel caps nesting at markdown's deepest heading.
const maxHeadingLevel = 6

// Write renders the scene as markdown to w.
//
// Roots are the nodes with no incoming edge, ordered top to bottom and
// then left to right, so the visual reading order survives the export.
// Each node becomes a heading at its depth with its content as a
// paragraph below. Nodes only reachable through a cycle are emitted as
// additional top-level sections rather than dropped. Group boxes are
// layout, not content, and are skipped.
func Write(w io.Writer, sc *scene.Scene, title string) error {
	if title != "" {
		if _, err := fmt.Fprintf(w, "# %s\n\n", title); err != nil {
			return err
		}
	}

	children := make(map[string][]*scene.Node)
	indegree := make(map[string]int)
	for _, e := range sc.Edges() {
		to := sc.Node(e.To)
		if to == nil || to.IsGroup() {
			continue
		}
		children[e.From] = append(children[e.From], to)
		indegree[e.To]++
	}
	for _, kids := range children {
		sortByPosition(kids)
	}

	var roots []*scene.Node
	for _, n := range sc.Nodes() {
		if !n.IsGroup() && indegree[n.ID] == 0 {
			roots = append(roots, n)
		}
	}
	sortByPosition(roots)

	visited := make(map[string]bool)
	for _, root := range roots {
		if err := writeNode(w, root, children, visited, 2); err != nil {
			return err
		}
	}

	// Cycle members have no in-degree-0 entry point; surface them anyway.
	var orphans []*scene.Node
	for _, n := range sc.Nodes() {
		if !n.IsGroup() && !visited[n.ID] {
			orphans = append(orphans, n)
		}
	}
	sortByPosition(orphans)
	for _, n := range orphans {
		if err := writeNode(w, n, children, visited, 2); err != nil {
			return err
		}
	}
	return nil
}

// Render returns the markdown for a scene as a string.
func Render(sc *scene.Scene, title string) (string, error) {
	var b strings.Builder
	if err := Write(&b, sc, title); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeNode(w io.Writer, n *scene.Node, children map[string][]*scene.Node, visited map[string]bool, level int) error {
	if visited[n.ID] {
		return nil
	}
	visited[n.ID] = true

	heading := strings.Repeat("#", min(level, maxHeadingLevel))
	title := n.Title
	if title == "" {
		title = "(untitled)"
	}
	if _, err := fmt.Fprintf(w, "%s %s\n\n", heading, title); err != nil {
		return err
	}
	if n.Content != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", strings.TrimSpace(n.Content)); err != nil {
			return err
		}
	}
	for _, child := range children[n.ID] {
		if err := writeNode(w, child, children, visited, level+1); err != nil {
			return err
		}
	}
	return nil
}

// sortByPosition orders nodes top to bottom, breaking ties left to right.
func sortByPosition(nodes []*scene.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Y != nodes[j].Y {
			return nodes[i].Y < nodes[j].Y
		}
		return nodes[i].X < nodes[j].X
	})
}
