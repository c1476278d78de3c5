package document

import (
	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

// CurrentVersion is the document format version written by this build.
const CurrentVersion = 1

// Document is the canonical serialization format for a mind map. Used for
// file storage, API responses, and the store backends.
//
// The format is human-readable and designed for round-trip fidelity:
// load → edit → save → reload produces an equivalent scene. Node order is
// preserved because it is the z-order.
type Document struct {
	Version   int            `json:"version" bson:"version"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	Transform geom.Transform `json:"transform" bson:"transform"`
	Nodes     []Node         `json:"nodes" bson:"nodes"`
	Edges     []Edge         `json:"edges" bson:"edges"`
}

// Node is the wire form of a scene node.
type Node struct {
	ID       string  `json:"id" bson:"id"`
	Kind     string  `json:"kind,omitempty" bson:"kind,omitempty"` // "standard", "group", or "image"
	Title    string  `json:"title,omitempty" bson:"title,omitempty"`
	Content  string  `json:"content,omitempty" bson:"content,omitempty"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"` // asset reference
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Color    string  `json:"color,omitempty" bson:"color,omitempty"`
	ParentID string  `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
}

// Edge is the wire form of a scene edge. ControlPoint is the legacy
// single-curve field written by old builds; it is folded into Breakpoints
// on serialization and accepted on load.
type Edge struct {
	ID           string       `json:"id" bson:"id"`
	From         string       `json:"from" bson:"from"`
	To           string       `json:"to" bson:"to"`
	FromHandle   string       `json:"from_handle,omitempty" bson:"from_handle,omitempty"`
	ToHandle     string       `json:"to_handle,omitempty" bson:"to_handle,omitempty"`
	Routing      string       `json:"routing,omitempty" bson:"routing,omitempty"`
	Breakpoints  []geom.Point `json:"breakpoints,omitempty" bson:"breakpoints,omitempty"`
	ControlPoint *geom.Point  `json:"control_point,omitempty" bson:"control_point,omitempty"`
	Style        string       `json:"style,omitempty" bson:"style,omitempty"`
	Arrow        string       `json:"arrow,omitempty" bson:"arrow,omitempty"`
	Color        string       `json:"color,omitempty" bson:"color,omitempty"`
	Label        string       `json:"label,omitempty" bson:"label,omitempty"`
}

// Default returns the document every new map starts from: one node placed
// at the origin. It is also the fail-closed fallback for unreadable files.
func Default(name string) Document {
	return Document{
		Version:   CurrentVersion,
		Name:      name,
		Transform: geom.Transform{Scale: 1},
		Nodes: []Node{{
			ID:     scene.NewID(),
			Kind:   string(scene.KindStandard),
			Title:  "New idea",
			X:      -scene.DefaultNodeWidth / 2,
			Y:      -scene.DefaultNodeHeight / 2,
			Width:  scene.DefaultNodeWidth,
			Height: scene.DefaultNodeHeight,
		}},
		Edges: []Edge{},
	}
}
