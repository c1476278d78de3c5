// Package document defines the persisted wire format for mind maps and
// its conversion to and from the in-memory scene.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

// Marshal converts a document to indented JSON bytes.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(doc, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes JSON bytes into a document.
func Unmarshal(data []byte) (Document, error) {
	return readFrom(bytes.NewReader(data))
}

// WriteFile writes a document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeTo(doc, f)
}

// ReadFile reads a JSON file and returns the decoded document.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readFrom(f)
}

// Write encodes a document as JSON to an io.Writer.
func Write(doc Document, w io.Writer) error {
	return writeTo(doc, w)
}

// Read decodes a JSON document from an io.Reader.
func Read(r io.Reader) (Document, error) {
	return readFrom(r)
}

// LoadOrDefault reads the document at path and falls back to the default
// single-node document when the file is missing or unreadable. A corrupt
// map is never allowed to block the editor from opening.
func LoadOrDefault(path, name string) Document {
	doc, err := ReadFile(path)
	if err != nil {
		return Default(name)
	}
	if _, _, err := ToScene(doc); err != nil {
		return Default(name)
	}
	return doc
}

func writeTo(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readFrom(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	applyDefaults(&doc)
	return doc, nil
}

// applyDefaults fills the fields older or hand-edited documents omit.
func applyDefaults(doc *Document) {
	if doc.Version == 0 {
		doc.Version = CurrentVersion
	}
	if doc.Transform.Scale == 0 {
		doc.Transform.Scale = 1
	}
	doc.Transform.Scale = geom.ClampScale(doc.Transform.Scale)
	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		if n.Kind == "" {
			n.Kind = string(scene.KindStandard)
		}
		if n.Width == 0 {
			n.Width = scene.DefaultNodeWidth
		}
		if n.Height == 0 {
			n.Height = scene.DefaultNodeHeight
		}
	}
	for i := range doc.Edges {
		e := &doc.Edges[i]
		if e.Style == "" {
			e.Style = string(scene.StyleSolid)
		}
		if e.Arrow == "" {
			e.Arrow = string(scene.ArrowTo)
		}
	}
}

// =============================================================================
// Scene ↔ Document Conversion
// =============================================================================

// FromScene converts a scene and viewport to its serialization format.
// Legacy control points are folded into the breakpoint list, so a saved
// document never carries the deprecated field.
func FromScene(sc *scene.Scene, t geom.Transform, name string) Document {
	nodes := sc.Nodes()
	edges := sc.Edges()
	doc := Document{
		Version:   CurrentVersion,
		Name:      name,
		Transform: t,
		Nodes:     make([]Node, len(nodes)),
		Edges:     make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		doc.Nodes[i] = Node{
			ID:       n.ID,
			Kind:     string(n.Kind),
			Title:    n.Title,
			Content:  n.Content,
			Image:    n.Image,
			X:        n.X,
			Y:        n.Y,
			Width:    n.Width,
			Height:   n.Height,
			Color:    n.Color,
			ParentID: n.ParentID,
		}
	}
	for i, e := range edges {
		bps := e.EffectiveBreakpoints()
		out := Edge{
			ID:         e.ID,
			From:       e.From,
			To:         e.To,
			FromHandle: e.FromHandle.String(),
			ToHandle:   e.ToHandle.String(),
			Routing:    e.Routing.String(),
			Style:      string(e.Style),
			Arrow:      string(e.Arrow),
			Color:      e.Color,
			Label:      e.Label,
		}
		if len(bps) > 0 {
			out.Breakpoints = make([]geom.Point, len(bps))
			copy(out.Breakpoints, bps)
		}
		doc.Edges[i] = out
	}
	return doc
}

// ToScene builds a scene and viewport transform from a document. Invalid
// nodes fail the conversion; edges referencing missing nodes or
// duplicating a pair are dropped, matching the scene's own tolerance for
// dangling references.
func ToScene(doc Document) (*scene.Scene, geom.Transform, error) {
	sc := scene.New()
	for i := range doc.Nodes {
		w := doc.Nodes[i]
		n := &scene.Node{
			ID:       w.ID,
			Kind:     scene.Kind(w.Kind),
			Title:    w.Title,
			Content:  w.Content,
			Image:    w.Image,
			X:        w.X,
			Y:        w.Y,
			Width:    w.Width,
			Height:   w.Height,
			Color:    w.Color,
			ParentID: w.ParentID,
		}
		if err := sc.AddNode(n); err != nil {
			return nil, geom.Transform{}, fmt.Errorf("node %q: %w", w.ID, err)
		}
	}
	// A parent reference to a deleted or non-group node is cleared rather
	// than rejected.
	for _, n := range sc.Nodes() {
		if n.ParentID == "" {
			continue
		}
		if p := sc.Node(n.ParentID); p == nil || !p.IsGroup() {
			n.ParentID = ""
		}
	}
	for i := range doc.Edges {
		w := doc.Edges[i]
		e := &scene.Edge{
			ID:         w.ID,
			From:       w.From,
			To:         w.To,
			FromHandle: geom.ParseSide(w.FromHandle),
			ToHandle:   geom.ParseSide(w.ToHandle),
			Routing:    geom.ParseRouting(w.Routing),
			Style:      scene.Style(w.Style),
			Arrow:      scene.Arrow(w.Arrow),
			Color:      w.Color,
			Label:      w.Label,
		}
		if len(w.Breakpoints) > 0 {
			e.Breakpoints = make([]geom.Point, len(w.Breakpoints))
			copy(e.Breakpoints, w.Breakpoints)
		}
		if w.ControlPoint != nil {
			cp := *w.ControlPoint
			e.ControlPoint = &cp
		}
		if err := sc.AddEdge(e); err != nil {
			continue
		}
	}
	t := doc.Transform
	if t.Scale == 0 {
		t.Scale = 1
	}
	t.Scale = geom.ClampScale(t.Scale)
	return sc, t, nil
}
