// Package editor implements the interaction state machine that turns
// pointer and keyboard input into scene mutations.
//
// A Session owns the shared editing state: the scene, the viewport
// transform, the selection, and the undo history. All mutation happens
// synchronously on the caller's goroutine in response to discrete input
// events; exactly one gesture state is active at any instant, which gives
// the scene single-writer semantics without locks. The rendering layer
// re-reads the scene (and the transient preview accessors) each frame.
package editor

import (
	"time"

	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/history"
	"github.com/ideamap/ideamap/pkg/scene"
)

// State identifies the active gesture. Exactly one state is active at a
// time; gestures are entered on pointer-down and exited on pointer-up.
type State int

const (
	StateIdle State = iota
	StatePanning
	StateBoxSelecting
	StateDraggingNodes
	StateConnecting
	StateReconnecting
	StateResizing
	// StateDraggingBreakpoint moves a breakpoint marker of the selected
	// edge; part of edge shape editing.
	StateDraggingBreakpoint
)

// Hit-test tolerances and gesture thresholds, in world units unless noted.
const (
	// handleHitRadius is the pick radius around a directional handle.
	handleHitRadius = 10
	// resizeCornerSize is the side length of the resize affordance square
	// anchored at a node's bottom-right corner.
	resizeCornerSize = 14
	// edgeHitDistance is the pick distance for edge paths.
	edgeHitDistance = 6
	// markerHitRadius is the pick radius for endpoint and breakpoint
	// markers, shown only while the edge is selected.
	markerHitRadius = 8
	// snapThreshold is the NearestHandle search radius for connect and
	// reconnect gestures.
	snapThreshold = 40
)

// frameInterval bounds pointer-move processing to one pass per display
// refresh; intermediate moves are coalesced, latest wins.
const frameInterval = time.Second / 60

// Button identifies the pointer button of an event.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
)

// Modifiers carries the keyboard modifier state of a pointer event.
type Modifiers struct {
	// Shift toggles nodes in and out of the selection.
	Shift bool
	// Pan turns a primary-button press on empty canvas into a pan.
	Pan bool
}

// PointerEvent is one pointer sample in screen space.
type PointerEvent struct {
	Pos    geom.Point
	Button Button
	Mods   Modifiers
}

// Session owns the shared editing state and drives all gestures. Create
// one per open document and pass it by reference; there are no package
// singletons.
type Session struct {
	scene     *scene.Scene
	transform geom.Transform
	selection Selection
	history   *history.History

	state   State
	gesture gestureData
	editing *textEdit

	expanding bool

	now       func() time.Time
	lastFrame time.Time
	pending   *PointerEvent
}

// Option configures a Session.
type Option func(*Session)

// WithClock substitutes the time source used for frame coalescing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithTransform sets the initial viewport transform.
func WithTransform(t geom.Transform) Option {
	return func(s *Session) {
		t.Scale = geom.ClampScale(t.Scale)
		s.transform = t
	}
}

// NewSession creates an editing session over the given scene.
func NewSession(sc *scene.Scene, opts ...Option) *Session {
	s := &Session{
		scene:     sc,
		transform: geom.Transform{Scale: 1},
		history:   history.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scene returns the session's scene.
func (s *Session) Scene() *scene.Scene { return s.scene }

// State returns the active gesture state.
func (s *Session) State() State { return s.state }

// Transform returns the current viewport transform.
func (s *Session) Transform() geom.Transform { return s.transform }

// SetTransform replaces the viewport transform, clamping the scale.
func (s *Session) SetTransform(t geom.Transform) {
	t.Scale = geom.ClampScale(t.Scale)
	s.transform = t
}

// Selection returns the current selection for reading.
func (s *Session) Selection() *Selection { return &s.selection }

// History exposes the undo history, mainly for tests and the host shell.
func (s *Session) History() *history.History { return s.history }

// Undo restores the previous snapshot and prunes the selection of any
// entities that no longer exist.
func (s *Session) Undo() bool {
	if !s.history.Undo(s.scene) {
		return false
	}
	s.pruneSelection()
	return true
}

// Redo restores the next snapshot, pruning the selection likewise.
func (s *Session) Redo() bool {
	if !s.history.Redo(s.scene) {
		return false
	}
	s.pruneSelection()
	return true
}

func (s *Session) pruneSelection() {
	for _, id := range s.selection.NodeIDs() {
		if s.scene.Node(id) == nil {
			s.selection.ToggleNode(id)
		}
	}
	if id := s.selection.EdgeID(); id != "" && s.scene.Edge(id) == nil {
		s.selection.Clear()
	}
}

// ZoomAt rescales the viewport by factor, keeping the world point under
// the given screen point stationary. The scale is clamped to [0.1, 5].
func (s *Session) ZoomAt(screen geom.Point, factor float64) {
	world := geom.ScreenToWorld(screen, s.transform)
	newScale := geom.ClampScale(s.transform.Scale * factor)
	s.transform = geom.Transform{
		X:     screen.X - world.X*newScale,
		Y:     screen.Y - world.Y*newScale,
		Scale: newScale,
	}
}

// Selection is the mutually exclusive selection: either a set of node IDs
// or a single edge ID, never both.
type Selection struct {
	nodes map[string]struct{}
	edge  string
}

// Clear empties the selection.
func (sel *Selection) Clear() {
	sel.nodes = nil
	sel.edge = ""
}

// ReplaceNodes selects exactly the given nodes, dropping any edge.
func (sel *Selection) ReplaceNodes(ids ...string) {
	sel.edge = ""
	sel.nodes = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sel.nodes[id] = struct{}{}
	}
}

// ToggleNode adds or removes a node, dropping any selected edge.
func (sel *Selection) ToggleNode(id string) {
	sel.edge = ""
	if sel.nodes == nil {
		sel.nodes = make(map[string]struct{})
	}
	if _, ok := sel.nodes[id]; ok {
		delete(sel.nodes, id)
	} else {
		sel.nodes[id] = struct{}{}
	}
}

// SelectEdge selects a single edge, dropping any nodes.
func (sel *Selection) SelectEdge(id string) {
	sel.nodes = nil
	sel.edge = id
}

// HasNode reports whether the node is selected.
func (sel *Selection) HasNode(id string) bool {
	_, ok := sel.nodes[id]
	return ok
}

// NodeIDs returns the selected node IDs in unspecified order.
func (sel *Selection) NodeIDs() []string {
	out := make([]string, 0, len(sel.nodes))
	for id := range sel.nodes {
		out = append(out, id)
	}
	return out
}

// EdgeID returns the selected edge ID, or "".
func (sel *Selection) EdgeID() string { return sel.edge }

// Empty reports whether nothing is selected.
func (sel *Selection) Empty() bool {
	return len(sel.nodes) == 0 && sel.edge == ""
}
