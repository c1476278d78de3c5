package scene

import (
	"errors"
	"fmt"

	"github.com/ideamap/ideamap/pkg/geom"
)

var (
	// ErrInvalidNodeID is returned by AddNode when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by AddNode when a node with the same
	// ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by AddEdge when an endpoint does not
	// reference an existing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrSelfEdge is returned by AddEdge when both endpoints are the same
	// node.
	ErrSelfEdge = errors.New("edge endpoints must differ")

	// ErrDuplicateEdge is returned by AddEdge when an edge already joins
	// the two nodes in either direction.
	ErrDuplicateEdge = errors.New("nodes are already connected")
)

// Scene holds the node/edge collections. Nodes keep a stable insertion
// order so that handle scans and parent reconciliation stay deterministic.
type Scene struct {
	nodes []*Node
	edges []*Edge
	byID  map[string]*Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{byID: make(map[string]*Node)}
}

// AddNode inserts a node. The node's ID must be non-empty and unique.
func (s *Scene) AddNode(n *Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := s.byID[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	if n.Kind == "" {
		n.Kind = KindStandard
	}
	s.nodes = append(s.nodes, n)
	s.byID[n.ID] = n
	return nil
}

// Node returns the node with the given ID, or nil.
func (s *Scene) Node(id string) *Node {
	return s.byID[id]
}

// Nodes returns the nodes in insertion order. The slice is shared; callers
// must not reorder or resize it.
func (s *Scene) Nodes() []*Node { return s.nodes }

// NodeCount returns the number of nodes.
func (s *Scene) NodeCount() int { return len(s.nodes) }

// RemoveNode deletes a node and cascades to all incident edges. Children
// of a removed group become parentless; they are never deleted with it.
// Removing an unknown ID is a no-op.
func (s *Scene) RemoveNode(id string) {
	n := s.byID[id]
	if n == nil {
		return
	}
	delete(s.byID, id)
	for i, other := range s.nodes {
		if other.ID == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.From != id && e.To != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	if n.IsGroup() {
		for _, child := range s.nodes {
			if child.ParentID == id {
				child.ParentID = ""
			}
		}
	}
}

// AddEdge inserts an edge after validating the core invariants: both
// endpoints exist, they differ, and no edge already joins the pair in
// either direction.
func (s *Scene) AddEdge(e *Edge) error {
	if e.From == e.To {
		return ErrSelfEdge
	}
	if s.byID[e.From] == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, e.From)
	}
	if s.byID[e.To] == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, e.To)
	}
	for _, other := range s.edges {
		if other.Connects(e.From, e.To) {
			return ErrDuplicateEdge
		}
	}
	if e.Style == "" {
		e.Style = StyleSolid
	}
	if e.Arrow == "" {
		e.Arrow = ArrowTo
	}
	s.edges = append(s.edges, e)
	return nil
}

// Edge returns the edge with the given ID, or nil.
func (s *Scene) Edge(id string) *Edge {
	for _, e := range s.edges {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Edges returns all edges whose endpoints still exist. Dangling references
// are filtered defensively rather than treated as fatal.
func (s *Scene) Edges() []*Edge {
	out := make([]*Edge, 0, len(s.edges))
	for _, e := range s.edges {
		if s.byID[e.From] != nil && s.byID[e.To] != nil {
			out = append(out, e)
		}
	}
	return out
}

// EdgeCount returns the number of stored edges, including any dangling
// ones not yet filtered by a read.
func (s *Scene) EdgeCount() int { return len(s.edges) }

// RemoveEdge deletes the edge with the given ID. Unknown IDs are a no-op.
func (s *Scene) RemoveEdge(id string) {
	for i, e := range s.edges {
		if e.ID == id {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return
		}
	}
}

// Connected reports whether an edge joins a and b in either direction.
func (s *Scene) Connected(a, b string) bool {
	for _, e := range s.edges {
		if e.Connects(a, b) {
			return true
		}
	}
	return false
}

// IncidentEdges returns the edges touching the given node.
func (s *Scene) IncidentEdges(id string) []*Edge {
	var out []*Edge
	for _, e := range s.edges {
		if e.From == id || e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Boxes returns the nodes as geometry boxes in scene order, for handle
// scans and hit testing.
func (s *Scene) Boxes() []geom.Box {
	out := make([]geom.Box, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = geom.Box{ID: n.ID, Rect: n.Rect()}
	}
	return out
}

// Children returns the non-group nodes whose ParentID is the given group.
func (s *Scene) Children(groupID string) []*Node {
	var out []*Node
	for _, n := range s.nodes {
		if n.ParentID == groupID {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot captures a deep copy of the node/edge collections.
type Snapshot struct {
	Nodes []*Node
	Edges []*Edge
}

// TakeSnapshot deep-copies the current scene state.
func (s *Scene) TakeSnapshot() Snapshot {
	snap := Snapshot{
		Nodes: make([]*Node, len(s.nodes)),
		Edges: make([]*Edge, len(s.edges)),
	}
	for i, n := range s.nodes {
		snap.Nodes[i] = n.Clone()
	}
	for i, e := range s.edges {
		snap.Edges[i] = e.Clone()
	}
	return snap
}

// Restore replaces the scene's state with a deep copy of the snapshot.
func (s *Scene) Restore(snap Snapshot) {
	s.nodes = make([]*Node, len(snap.Nodes))
	s.edges = make([]*Edge, len(snap.Edges))
	s.byID = make(map[string]*Node, len(snap.Nodes))
	for i, n := range snap.Nodes {
		c := n.Clone()
		s.nodes[i] = c
		s.byID[c.ID] = c
	}
	for i, e := range snap.Edges {
		s.edges[i] = e.Clone()
	}
}

// Equal reports whether two snapshots hold identical node/edge values.
// Used to decide whether a continuous gesture actually changed anything.
func (a Snapshot) Equal(b Snapshot) bool {
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		return false
	}
	for i := range a.Nodes {
		if *a.Nodes[i] != *b.Nodes[i] {
			return false
		}
	}
	for i := range a.Edges {
		if !edgeEqual(a.Edges[i], b.Edges[i]) {
			return false
		}
	}
	return true
}

func edgeEqual(a, b *Edge) bool {
	if a.ID != b.ID || a.From != b.From || a.To != b.To ||
		a.FromHandle != b.FromHandle || a.ToHandle != b.ToHandle ||
		a.Routing != b.Routing || a.Style != b.Style ||
		a.Color != b.Color || a.Arrow != b.Arrow || a.Label != b.Label {
		return false
	}
	if len(a.Breakpoints) != len(b.Breakpoints) {
		return false
	}
	for i := range a.Breakpoints {
		if a.Breakpoints[i] != b.Breakpoints[i] {
			return false
		}
	}
	if (a.ControlPoint == nil) != (b.ControlPoint == nil) {
		return false
	}
	if a.ControlPoint != nil && *a.ControlPoint != *b.ControlPoint {
		return false
	}
	return true
}
