package editor

import (
	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

// gestureData is the transient per-gesture state, discarded
// unconditionally on gesture exit.
type gestureData struct {
	startScreen    geom.Point
	startWorld     geom.Point
	startTransform geom.Transform

	// Dragging.
	dragSet        map[string]struct{}
	startPositions map[string]geom.Point
	reconcileID    string // set for single-node drags only

	// Box selection, screen space.
	boxCurrent geom.Point

	// Connect / reconnect.
	sourceNode string
	sourceSide geom.Side
	candidate  geom.Point
	snap       *geom.HandleRef
	edgeID     string
	movingFrom bool
	fixedNode  string

	// Resize.
	resizeID       string
	startW, startH float64

	// Breakpoint drag.
	bpIndex int
}

// PointerDown begins a gesture. Events arriving while a gesture is active
// are ignored; gestures never nest.
func (s *Session) PointerDown(ev PointerEvent) {
	if s.state != StateIdle || s.editing != nil {
		return
	}
	world := geom.ScreenToWorld(ev.Pos, s.transform)
	s.gesture = gestureData{
		startScreen:    ev.Pos,
		startWorld:     world,
		startTransform: s.transform,
		bpIndex:        -1,
	}

	if ev.Button == ButtonMiddle {
		s.state = StatePanning
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	// Endpoint and breakpoint markers render only while their edge is
	// selected, so they are only pickable then.
	if edge := s.selectedEdge(); edge != nil {
		if s.beginReconnect(edge, world) || s.beginBreakpointDrag(edge, world) {
			return
		}
	}
	if s.beginConnect(world) {
		return
	}
	if s.beginResize(world) {
		return
	}
	if n := s.nodeAt(world); n != nil {
		s.beginNodeDrag(n, ev.Mods)
		return
	}
	if e := s.edgeAt(world); e != nil {
		s.selection.SelectEdge(e.ID)
		return
	}

	// Empty canvas.
	if ev.Mods.Pan {
		s.state = StatePanning
		return
	}
	s.state = StateBoxSelecting
	s.gesture.boxCurrent = ev.Pos
}

// PointerMove advances the active gesture. Processing is coalesced to at
// most one pass per frame interval; the latest sample wins.
func (s *Session) PointerMove(ev PointerEvent) {
	if s.state == StateIdle {
		return
	}
	now := s.now()
	if now.Sub(s.lastFrame) < frameInterval {
		s.pending = &ev
		return
	}
	s.lastFrame = now
	s.pending = nil
	s.processMove(ev)
}

func (s *Session) processMove(ev PointerEvent) {
	world := geom.ScreenToWorld(ev.Pos, s.transform)
	switch s.state {
	case StatePanning:
		// Screen-space delta translates the viewport directly, unscaled.
		s.transform.X = s.gesture.startTransform.X + ev.Pos.X - s.gesture.startScreen.X
		s.transform.Y = s.gesture.startTransform.Y + ev.Pos.Y - s.gesture.startScreen.Y

	case StateBoxSelecting:
		s.gesture.boxCurrent = ev.Pos

	case StateDraggingNodes:
		dx := world.X - s.gesture.startWorld.X
		dy := world.Y - s.gesture.startWorld.Y
		for id := range s.gesture.dragSet {
			n := s.scene.Node(id)
			if n == nil {
				continue
			}
			start := s.gesture.startPositions[id]
			n.X = start.X + dx
			n.Y = start.Y + dy
		}

	case StateConnecting:
		s.gesture.candidate = world
		s.gesture.snap = s.findSnap(world, s.gesture.sourceNode)

	case StateReconnecting:
		s.gesture.candidate = world
		s.gesture.snap = s.findSnap(world, s.gesture.fixedNode)

	case StateResizing:
		n := s.scene.Node(s.gesture.resizeID)
		if n == nil {
			return
		}
		scale := s.transform.Scale
		n.Width = max(scene.MinNodeWidth, s.gesture.startW+(ev.Pos.X-s.gesture.startScreen.X)/scale)
		n.Height = max(scene.MinNodeHeight, s.gesture.startH+(ev.Pos.Y-s.gesture.startScreen.Y)/scale)

	case StateDraggingBreakpoint:
		e := s.scene.Edge(s.gesture.edgeID)
		if e == nil || s.gesture.bpIndex < 0 || s.gesture.bpIndex >= len(e.Breakpoints) {
			return
		}
		e.Breakpoints[s.gesture.bpIndex] = world
	}
}

// PointerUp commits or discards the active gesture. Releasing the pointer
// always exits the gesture; there is no other cancellation path.
func (s *Session) PointerUp(ev PointerEvent) {
	if s.state == StateIdle {
		return
	}
	// Apply a coalesced trailing move before committing.
	if s.pending != nil {
		mv := *s.pending
		s.pending = nil
		s.processMove(mv)
	}

	switch s.state {
	case StateBoxSelecting:
		s.commitBoxSelect(ev.Pos)

	case StateDraggingNodes:
		if s.gesture.reconcileID != "" {
			s.scene.ReconcileParents(s.gesture.reconcileID)
		}
		s.scene.RecomputeGroupBounds()
		s.history.CommitIfChanged(s.scene)

	case StateConnecting:
		s.commitConnect()

	case StateReconnecting:
		s.commitReconnect()

	case StateResizing:
		// Groups resize directly; recomputing their bounds here would
		// snap the box back to the children's union and void the
		// gesture. Child resizes still propagate growth to the parent.
		if n := s.scene.Node(s.gesture.resizeID); n != nil && !n.IsGroup() {
			s.scene.RecomputeGroupBounds()
		}
		s.history.CommitIfChanged(s.scene)

	case StateDraggingBreakpoint:
		s.history.CommitIfChanged(s.scene)
	}

	s.state = StateIdle
	s.gesture = gestureData{}
}

// ----- gesture entry helpers -----

func (s *Session) selectedEdge() *scene.Edge {
	if id := s.selection.EdgeID(); id != "" {
		return s.scene.Edge(id)
	}
	return nil
}

func (s *Session) beginReconnect(e *scene.Edge, world geom.Point) bool {
	start, end, ok := s.edgeEndpoints(e)
	if !ok {
		return false
	}
	switch {
	case world.Dist(start) <= markerHitRadius:
		s.state = StateReconnecting
		s.gesture.edgeID = e.ID
		s.gesture.movingFrom = true
		s.gesture.fixedNode = e.To
	case world.Dist(end) <= markerHitRadius:
		s.state = StateReconnecting
		s.gesture.edgeID = e.ID
		s.gesture.movingFrom = false
		s.gesture.fixedNode = e.From
	default:
		return false
	}
	s.gesture.candidate = world
	return true
}

func (s *Session) beginBreakpointDrag(e *scene.Edge, world geom.Point) bool {
	for i, bp := range e.EffectiveBreakpoints() {
		if world.Dist(bp) <= markerHitRadius {
			s.history.Begin(s.scene)
			e.MigrateControlPoint()
			s.state = StateDraggingBreakpoint
			s.gesture.edgeID = e.ID
			s.gesture.bpIndex = i
			return true
		}
	}
	return false
}

func (s *Session) beginConnect(world geom.Point) bool {
	nodes := s.scene.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		for _, side := range geom.Sides {
			if world.Dist(geom.HandlePosition(n.Rect(), side)) <= handleHitRadius {
				s.state = StateConnecting
				s.gesture.sourceNode = n.ID
				s.gesture.sourceSide = side
				s.gesture.candidate = world
				return true
			}
		}
	}
	return false
}

func (s *Session) beginResize(world geom.Point) bool {
	nodes := s.scene.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		corner := geom.Rect{
			X: n.X + n.Width - resizeCornerSize,
			Y: n.Y + n.Height - resizeCornerSize,
			W: resizeCornerSize,
			H: resizeCornerSize,
		}
		if corner.Contains(world) {
			s.history.Begin(s.scene)
			s.state = StateResizing
			s.gesture.resizeID = n.ID
			s.gesture.startW = n.Width
			s.gesture.startH = n.Height
			return true
		}
	}
	return false
}

func (s *Session) beginNodeDrag(n *scene.Node, mods Modifiers) {
	if mods.Shift {
		s.selection.ToggleNode(n.ID)
		if !s.selection.HasNode(n.ID) {
			// Toggled out: no drag follows.
			return
		}
	} else if !s.selection.HasNode(n.ID) {
		s.selection.ReplaceNodes(n.ID)
	}

	// The drag set is the whole selection when the pressed node belongs to
	// it, plus the children of any dragged group.
	set := make(map[string]struct{})
	for _, id := range s.selection.NodeIDs() {
		set[id] = struct{}{}
	}
	for id := range set {
		if g := s.scene.Node(id); g != nil && g.IsGroup() {
			for _, child := range s.scene.Children(id) {
				set[child.ID] = struct{}{}
			}
		}
	}

	s.gesture.dragSet = set
	s.gesture.startPositions = make(map[string]geom.Point, len(set))
	for id := range set {
		if node := s.scene.Node(id); node != nil {
			s.gesture.startPositions[id] = geom.Point{X: node.X, Y: node.Y}
		}
	}
	// Single non-group drags reparent on release; moving several nodes or
	// a group skips reparenting of the moved set.
	if len(set) == 1 && !n.IsGroup() {
		s.gesture.reconcileID = n.ID
	}
	s.history.Begin(s.scene)
	s.state = StateDraggingNodes
}

// ----- hit testing -----

func (s *Session) nodeAt(world geom.Point) *scene.Node {
	nodes := s.scene.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i].Rect().Contains(world) {
			return nodes[i]
		}
	}
	return nil
}

func (s *Session) edgeAt(world geom.Point) *scene.Edge {
	edges := s.scene.Edges()
	for i := len(edges) - 1; i >= 0; i-- {
		e := edges[i]
		path, ok := s.edgePath(e)
		if !ok {
			continue
		}
		if geom.DistanceToPath(world, path) <= edgeHitDistance {
			return e
		}
	}
	return nil
}

// edgePath synthesizes the concrete path for an edge, resolving handle
// positions from the current node boxes.
func (s *Session) edgePath(e *scene.Edge) (geom.Path, bool) {
	start, end, ok := s.edgeEndpoints(e)
	if !ok {
		return geom.Path{}, false
	}
	return geom.SynthesizePath(start, end, e.FromHandle, e.ToHandle, e.Routing, e.EffectiveBreakpoints()), true
}

func (s *Session) edgeEndpoints(e *scene.Edge) (geom.Point, geom.Point, bool) {
	from := s.scene.Node(e.From)
	to := s.scene.Node(e.To)
	if from == nil || to == nil {
		return geom.Point{}, geom.Point{}, false
	}
	return geom.HandlePosition(from.Rect(), e.FromHandle), geom.HandlePosition(to.Rect(), e.ToHandle), true
}

func (s *Session) findSnap(world geom.Point, exclude string) *geom.HandleRef {
	ref, ok := geom.NearestHandle(world, s.scene.Boxes(), exclude, snapThreshold)
	if !ok {
		return nil
	}
	return &ref
}

// ----- gesture commits -----

func (s *Session) commitBoxSelect(screen geom.Point) {
	a := geom.ScreenToWorld(s.gesture.startScreen, s.transform)
	b := geom.ScreenToWorld(screen, s.transform)
	box := geom.NormalizedRect(a, b)

	// Only nodes fully contained by the rectangle are selected.
	var ids []string
	for _, n := range s.scene.Nodes() {
		if box.ContainsRect(n.Rect()) {
			ids = append(ids, n.ID)
		}
	}
	s.selection.ReplaceNodes(ids...)
}

func (s *Session) commitConnect() {
	snap := s.gesture.snap
	if snap == nil {
		return
	}
	if s.scene.Connected(s.gesture.sourceNode, snap.NodeID) {
		return
	}
	s.history.Checkpoint(s.scene)
	err := s.scene.AddEdge(&scene.Edge{
		ID:         scene.NewID(),
		From:       s.gesture.sourceNode,
		To:         snap.NodeID,
		FromHandle: s.gesture.sourceSide,
		ToHandle:   snap.Side,
		Routing:    geom.RoutingBezier,
		Style:      scene.StyleSolid,
		Arrow:      scene.ArrowTo,
	})
	if err != nil {
		// Validation raced the checkpoint; roll it back.
		s.history.Rollback(s.scene)
	}
}

func (s *Session) commitReconnect() {
	snap := s.gesture.snap
	e := s.scene.Edge(s.gesture.edgeID)
	if snap == nil || e == nil || snap.NodeID == s.gesture.fixedNode {
		return
	}
	// Dropping the endpoint back where it started changes nothing.
	if s.gesture.movingFrom {
		if snap.NodeID == e.From && snap.Side == e.FromHandle {
			return
		}
	} else if snap.NodeID == e.To && snap.Side == e.ToHandle {
		return
	}
	// The edge being edited doesn't count against the duplicate rule, but
	// any other edge joining the pair does.
	for _, other := range s.scene.Edges() {
		if other.ID != e.ID && other.Connects(s.gesture.fixedNode, snap.NodeID) {
			return
		}
	}
	s.history.Checkpoint(s.scene)
	if s.gesture.movingFrom {
		e.From = snap.NodeID
		e.FromHandle = snap.Side
	} else {
		e.To = snap.NodeID
		e.ToHandle = snap.Side
	}
}

// ----- transient previews, read by the render layer -----

// PendingConnection returns the preview line for an active connect or
// reconnect gesture: the anchored point, the floating candidate point, and
// whether the candidate is snapped to a handle.
func (s *Session) PendingConnection() (from, to geom.Point, snapped, active bool) {
	switch s.state {
	case StateConnecting:
		n := s.scene.Node(s.gesture.sourceNode)
		if n == nil {
			return
		}
		from = geom.HandlePosition(n.Rect(), s.gesture.sourceSide)
	case StateReconnecting:
		e := s.scene.Edge(s.gesture.edgeID)
		if e == nil {
			return
		}
		start, end, ok := s.edgeEndpoints(e)
		if !ok {
			return
		}
		if s.gesture.movingFrom {
			from = end
		} else {
			from = start
		}
	default:
		return
	}
	to = s.gesture.candidate
	if s.gesture.snap != nil {
		to = s.gesture.snap.Pos
		snapped = true
	}
	return from, to, snapped, true
}

// SelectionRect returns the active box-selection rectangle in screen
// space.
func (s *Session) SelectionRect() (geom.Rect, bool) {
	if s.state != StateBoxSelecting {
		return geom.Rect{}, false
	}
	return geom.NormalizedRect(s.gesture.startScreen, s.gesture.boxCurrent), true
}
