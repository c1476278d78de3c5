package editor

import (
	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

// DoubleClick routes a double-click: breakpoint markers delete, edge paths
// gain a breakpoint, node bodies open the in-place text editor, and empty
// canvas creates a new node at the clicked point.
func (s *Session) DoubleClick(ev PointerEvent) {
	if s.state != StateIdle || s.editing != nil {
		return
	}
	world := geom.ScreenToWorld(ev.Pos, s.transform)

	if e := s.selectedEdge(); e != nil {
		for i, bp := range e.EffectiveBreakpoints() {
			if world.Dist(bp) <= markerHitRadius {
				s.deleteBreakpoint(e, i)
				return
			}
		}
	}
	if n := s.nodeAt(world); n != nil {
		s.BeginTextEdit(n.ID, FieldTitle)
		return
	}
	if e := s.edgeAt(world); e != nil {
		s.selection.SelectEdge(e.ID)
		s.insertBreakpoint(e, world)
		return
	}
	s.CreateNodeAt(world)
}

// CreateNodeAt inserts a standard node centered on the given world point.
func (s *Session) CreateNodeAt(world geom.Point) *scene.Node {
	s.history.Checkpoint(s.scene)
	n := &scene.Node{
		ID:     scene.NewID(),
		Kind:   scene.KindStandard,
		Title:  "New idea",
		X:      world.X - scene.DefaultNodeWidth/2,
		Y:      world.Y - scene.DefaultNodeHeight/2,
		Width:  scene.DefaultNodeWidth,
		Height: scene.DefaultNodeHeight,
	}
	if err := s.scene.AddNode(n); err != nil {
		s.history.Rollback(s.scene)
		return nil
	}
	s.scene.ReconcileParents(n.ID)
	s.selection.ReplaceNodes(n.ID)
	return n
}

// insertBreakpoint adds a breakpoint at the clicked world position. Step
// edges carry no breakpoints, so they are first converted to straight.
func (s *Session) insertBreakpoint(e *scene.Edge, world geom.Point) {
	start, end, ok := s.edgeEndpoints(e)
	if !ok {
		return
	}
	s.history.Checkpoint(s.scene)
	if e.Routing == geom.RoutingStep {
		e.Routing = geom.RoutingStraight
	}
	e.MigrateControlPoint()
	idx := insertIndex(start, end, e.Breakpoints, world)
	e.Breakpoints = append(e.Breakpoints, geom.Point{})
	copy(e.Breakpoints[idx+1:], e.Breakpoints[idx:])
	e.Breakpoints[idx] = world
}

// insertIndex finds the breakpoint slot whose surrounding polyline segment
// lies closest to the clicked point.
func insertIndex(start, end geom.Point, bps []geom.Point, p geom.Point) int {
	pts := make([]geom.Point, 0, len(bps)+2)
	pts = append(pts, start)
	pts = append(pts, bps...)
	pts = append(pts, end)

	best, bestDist := 0, -1.0
	for i := 0; i+1 < len(pts); i++ {
		d := geom.DistanceToPath(p, geom.Path{Kind: geom.PathPolyline, Points: pts[i : i+2]})
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (s *Session) deleteBreakpoint(e *scene.Edge, i int) {
	if i < 0 || i >= len(e.EffectiveBreakpoints()) {
		return
	}
	s.history.Checkpoint(s.scene)
	e.MigrateControlPoint()
	e.Breakpoints = append(e.Breakpoints[:i], e.Breakpoints[i+1:]...)
}

// DeleteSelection removes the selected nodes (cascading to incident
// edges) or the selected edge. Deleting a group orphans its children.
// An empty selection is a no-op with no history entry.
func (s *Session) DeleteSelection() {
	if s.selection.Empty() {
		return
	}
	s.history.Checkpoint(s.scene)
	if id := s.selection.EdgeID(); id != "" {
		s.scene.RemoveEdge(id)
	} else {
		for _, id := range s.selection.NodeIDs() {
			s.scene.RemoveNode(id)
		}
	}
	s.selection.Clear()
	s.scene.RecomputeGroupBounds()
}

// SetNodeColor recolors a node as one discrete undoable action.
func (s *Session) SetNodeColor(id, color string) {
	n := s.scene.Node(id)
	if n == nil || n.Color == color {
		return
	}
	s.history.Checkpoint(s.scene)
	n.Color = color
}

// GroupSelection collects the selected non-group nodes into a new group.
// The grid layout follows scene z-order, so the same selection always
// produces the same arrangement.
func (s *Session) GroupSelection() (*scene.Node, error) {
	ids := s.selection.NodeIDs()
	if len(ids) == 0 {
		return nil, scene.ErrNoSelection
	}
	s.history.Checkpoint(s.scene)
	g, err := s.scene.CreateGroup(s.zOrdered(ids))
	if err != nil {
		s.history.Rollback(s.scene)
		return nil, err
	}
	s.selection.ReplaceNodes(g.ID)
	return g, nil
}

// DisbandGroup deletes a group, leaving its children parentless.
func (s *Session) DisbandGroup(id string) {
	g := s.scene.Node(id)
	if g == nil || !g.IsGroup() {
		return
	}
	s.history.Checkpoint(s.scene)
	s.scene.Disband(id)
	s.pruneSelection()
}

// zOrdered filters the scene's node order down to the given ID set.
// Selection sets iterate in unspecified order; layout decisions need a
// stable one.
func (s *Session) zOrdered(ids []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, n := range s.scene.Nodes() {
		if want[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// AlignSelection recenters the selected nodes along the axis.
func (s *Session) AlignSelection(axis scene.Axis) error {
	ids := s.selection.NodeIDs()
	if len(ids) == 0 {
		return scene.ErrNoSelection
	}
	s.history.Checkpoint(s.scene)
	if err := s.scene.Align(ids, axis); err != nil {
		s.history.Rollback(s.scene)
		return err
	}
	s.scene.RecomputeGroupBounds()
	return nil
}

// EdgeProps carries an edge property edit; nil fields are left unchanged.
type EdgeProps struct {
	Routing *geom.Routing
	Style   *scene.Style
	Arrow   *scene.Arrow
	Color   *string
	Label   *string
}

// SetEdgeProps applies a property edit to the edge as one undoable
// action. Switching to step routing drops the breakpoints, since step
// paths carry none.
func (s *Session) SetEdgeProps(id string, props EdgeProps) {
	e := s.scene.Edge(id)
	if e == nil {
		return
	}
	s.history.Checkpoint(s.scene)
	if props.Routing != nil {
		e.MigrateControlPoint()
		e.Routing = *props.Routing
		if e.Routing == geom.RoutingStep {
			e.Breakpoints = nil
		}
	}
	if props.Style != nil {
		e.Style = *props.Style
	}
	if props.Arrow != nil {
		e.Arrow = *props.Arrow
	}
	if props.Color != nil {
		e.Color = *props.Color
	}
	if props.Label != nil {
		e.Label = *props.Label
	}
}

// ObserveRenderedSize records a one-way growth observation from the
// rendering layer (e.g. text wrapping past the node's box). It updates
// stored dimensions without being a user gesture: no history entry, and
// never while a resize gesture owns the node. Groups ignore it.
func (s *Session) ObserveRenderedSize(id string, w, h float64) {
	n := s.scene.Node(id)
	if n == nil || n.IsGroup() {
		return
	}
	if s.state == StateResizing && s.gesture.resizeID == id {
		return
	}
	if w > n.Width {
		n.Width = w
	}
	if h > n.Height {
		n.Height = h
	}
}

// TextField selects which node text an in-place edit targets.
type TextField int

const (
	FieldTitle TextField = iota
	FieldContent
)

// textEdit is the transient in-place editing state.
type textEdit struct {
	nodeID   string
	field    TextField
	original string
	text     string
}

// BeginTextEdit opens the in-place editor on a node's title or content.
func (s *Session) BeginTextEdit(id string, field TextField) bool {
	n := s.scene.Node(id)
	if n == nil || s.editing != nil {
		return false
	}
	original := n.Title
	if field == FieldContent {
		original = n.Content
	}
	s.editing = &textEdit{nodeID: id, field: field, original: original, text: original}
	return true
}

// Editing reports the node under in-place edit, or "".
func (s *Session) Editing() string {
	if s.editing == nil {
		return ""
	}
	return s.editing.nodeID
}

// SetEditText updates the transient editor text without touching the
// scene.
func (s *Session) SetEditText(text string) {
	if s.editing != nil {
		s.editing.text = text
	}
}

// CommitTextEdit applies the edited text as one undoable action. An
// unchanged commit leaves history untouched.
func (s *Session) CommitTextEdit() {
	ed := s.editing
	s.editing = nil
	if ed == nil {
		return
	}
	n := s.scene.Node(ed.nodeID)
	if n == nil || ed.text == ed.original {
		return
	}
	s.history.Checkpoint(s.scene)
	if ed.field == FieldContent {
		n.Content = ed.text
	} else {
		n.Title = ed.text
	}
}

// CancelTextEdit reverts to the last committed value without touching
// history. This is the Escape path, the only explicit gesture cancel.
func (s *Session) CancelTextEdit() {
	s.editing = nil
}
