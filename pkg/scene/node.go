// Package scene owns the mutable diagram state: nodes, edges, and the
// invariants that tie them together (cascading edge deletion, group
// containment, group bounding boxes).
//
// A Scene is not safe for concurrent use. The editor layer guarantees
// single-writer access: exactly one interaction gesture is active at any
// instant.
package scene

import (
	"github.com/google/uuid"

	"github.com/ideamap/ideamap/pkg/geom"
)

// Kind distinguishes node categories.
type Kind string

const (
	// KindStandard is a plain rectangular idea node.
	KindStandard Kind = "standard"
	// KindGroup is a container whose box is derived from its children.
	KindGroup Kind = "group"
	// KindImage is a node displaying a stored asset.
	KindImage Kind = "image"
)

// Minimum node dimensions enforced by resize.
const (
	MinNodeWidth  = 100
	MinNodeHeight = 50
)

// Default dimensions for nodes created by gestures or bulk insertion.
const (
	DefaultNodeWidth  = 160
	DefaultNodeHeight = 60
)

// Node is a positioned rectangular entity on the canvas.
type Node struct {
	ID      string
	Kind    Kind
	Title   string
	Content string
	// Image holds an asset store reference for image nodes.
	Image string

	X, Y          float64
	Width, Height float64

	Color string

	// ParentID names the group whose box contains this node's center.
	// Maintained by Scene.ReconcileParents; groups never carry a parent.
	ParentID string
}

// Rect returns the node's world-space box.
func (n *Node) Rect() geom.Rect {
	return geom.Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// Center returns the node's center point.
func (n *Node) Center() geom.Point { return n.Rect().Center() }

// IsGroup reports whether the node is a group container.
func (n *Node) IsGroup() bool { return n.Kind == KindGroup }

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// NewID returns a fresh node or edge identifier.
func NewID() string { return uuid.NewString() }
