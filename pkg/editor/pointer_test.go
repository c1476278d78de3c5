package editor

import (
	"testing"

	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

func TestMiddleButtonPans(t *testing.T) {
	s, clk := newTestSession(t)
	down := PointerEvent{Pos: geom.Point{X: 10, Y: 10}, Button: ButtonMiddle}
	s.PointerDown(down)
	if got, want := s.State(), StatePanning; got != want {
		t.Fatalf("State = %v, want %v", got, want)
	}
	clk.advance(2 * frameInterval)
	up := PointerEvent{Pos: geom.Point{X: 30, Y: 40}, Button: ButtonMiddle}
	s.PointerMove(up)
	s.PointerUp(up)

	tr := s.Transform()
	if tr.X != 20 || tr.Y != 30 {
		t.Errorf("Transform = (%v, %v), want (20, 30)", tr.X, tr.Y)
	}
	if got, want := s.State(), StateIdle; got != want {
		t.Errorf("State = %v, want %v", got, want)
	}
	if s.History().CanUndo() {
		t.Error("panning produced a history entry")
	}
}

func TestPanModifierOnEmptyCanvas(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 100, 50))
	down := PointerEvent{Pos: geom.Point{X: 500, Y: 500}, Button: ButtonPrimary, Mods: Modifiers{Pan: true}}
	s.PointerDown(down)
	if got, want := s.State(), StatePanning; got != want {
		t.Fatalf("State = %v, want %v", got, want)
	}
	clk.advance(2 * frameInterval)
	s.PointerUp(primaryAt(500, 500))
}

func TestBoxSelectFullContainmentOnly(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("in", 0, 0, 100, 50),
		testNode("out", 200, 0, 100, 50),
	)
	drag(s, clk, primaryAt(-10, -10), primaryAt(150, 100))

	sel := s.Selection()
	if !sel.HasNode("in") {
		t.Error("fully contained node not selected")
	}
	if sel.HasNode("out") {
		t.Error("partially covered node selected")
	}
	if s.History().CanUndo() {
		t.Error("box selection produced a history entry")
	}
}

func TestDragNodeMovesAndUndoesAsOneStep(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 100, 50))
	drag(s, clk, primaryAt(40, 20), primaryAt(90, 80))

	n := s.Scene().Node("a")
	if n.X != 50 || n.Y != 60 {
		t.Errorf("node at (%v, %v), want (50, 60)", n.X, n.Y)
	}
	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	n = s.Scene().Node("a")
	if n.X != 0 || n.Y != 0 {
		t.Errorf("after undo node at (%v, %v), want (0, 0)", n.X, n.Y)
	}
	if s.History().CanUndo() {
		t.Error("drag produced more than one history entry")
	}
}

func TestDragWithoutMovementLeavesHistoryEmpty(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 100, 50))
	drag(s, clk, primaryAt(40, 20), primaryAt(40, 20))
	if s.History().CanUndo() {
		t.Error("stationary drag produced a history entry")
	}
}

func TestShiftClickTogglesOutWithoutDragging(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 100, 50))
	s.Selection().ReplaceNodes("a")

	ev := PointerEvent{Pos: geom.Point{X: 40, Y: 20}, Button: ButtonPrimary, Mods: Modifiers{Shift: true}}
	s.PointerDown(ev)
	if s.Selection().HasNode("a") {
		t.Error("shift-click did not deselect the node")
	}
	if got, want := s.State(), StateIdle; got != want {
		t.Errorf("State = %v, want %v", got, want)
	}
	clk.advance(2 * frameInterval)
	s.PointerUp(ev)
}

func TestDragSelectionMovesAllSelectedNodes(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	s.Selection().ReplaceNodes("a", "b")
	drag(s, clk, primaryAt(40, 20), primaryAt(60, 50))

	a, b := s.Scene().Node("a"), s.Scene().Node("b")
	if a.X != 20 || a.Y != 30 {
		t.Errorf("a at (%v, %v), want (20, 30)", a.X, a.Y)
	}
	if b.X != 220 || b.Y != 30 {
		t.Errorf("b at (%v, %v), want (220, 30)", b.X, b.Y)
	}
}

func TestDragGroupCarriesChildren(t *testing.T) {
	g := testGroup("g", 0, 0, 300, 200)
	child := testNode("c", 50, 50, 100, 50)
	child.ParentID = "g"
	s, clk := newTestSession(t, g, child)

	// Press inside the group but outside the child.
	drag(s, clk, primaryAt(250, 150), primaryAt(260, 170))

	c := s.Scene().Node("c")
	if c.X != 60 || c.Y != 70 {
		t.Errorf("child at (%v, %v), want (60, 70)", c.X, c.Y)
	}
	// Release recomputes the group box around the moved child.
	if !s.Scene().Node("g").Rect().ContainsRect(c.Rect()) {
		t.Errorf("group %v does not contain child %v", s.Scene().Node("g").Rect(), c.Rect())
	}
}

func TestSingleDragReparentsIntoGroup(t *testing.T) {
	s, clk := newTestSession(t,
		testGroup("g", 0, 0, 300, 200),
		testNode("n", 400, 0, 100, 50),
	)
	drag(s, clk, primaryAt(430, 30), primaryAt(130, 30))

	if got, want := s.Scene().Node("n").ParentID, "g"; got != want {
		t.Errorf("ParentID = %q, want %q", got, want)
	}
	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	if got := s.Scene().Node("n").ParentID; got != "" {
		t.Errorf("ParentID = %q after undo, want empty", got)
	}
}

func TestMultiDragSkipsReparenting(t *testing.T) {
	s, clk := newTestSession(t,
		testGroup("g", 0, 0, 300, 200),
		testNode("n", 400, 0, 100, 50),
		testNode("m", 400, 100, 100, 50),
	)
	s.Selection().ReplaceNodes("n", "m")
	drag(s, clk, primaryAt(430, 30), primaryAt(130, 30))

	if got := s.Scene().Node("n").ParentID; got != "" {
		t.Errorf("n.ParentID = %q, want empty", got)
	}
	if got := s.Scene().Node("m").ParentID; got != "" {
		t.Errorf("m.ParentID = %q, want empty", got)
	}
}

func TestConnectSnapsAndCreatesEdge(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	// From a's right handle to within snap range of b's left handle.
	drag(s, clk, primaryAt(100, 25), primaryAt(190, 25))

	edges := s.Scene().Edges()
	if len(edges) != 1 {
		t.Fatalf("len(edges) = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.From != "a" || e.To != "b" {
		t.Errorf("edge %s -> %s, want a -> b", e.From, e.To)
	}
	if e.FromHandle != geom.SideRight || e.ToHandle != geom.SideLeft {
		t.Errorf("handles %v -> %v, want right -> left", e.FromHandle, e.ToHandle)
	}
	if e.Routing != geom.RoutingBezier || e.Style != scene.StyleSolid || e.Arrow != scene.ArrowTo {
		t.Errorf("defaults = %v/%v/%v, want bezier/solid/to", e.Routing, e.Style, e.Arrow)
	}

	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	if len(s.Scene().Edges()) != 0 {
		t.Error("edge survived undo")
	}
}

func TestConnectWithoutSnapIsDiscarded(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 500, 500, 100, 50),
	)
	drag(s, clk, primaryAt(100, 25), primaryAt(300, 300))

	if got := len(s.Scene().Edges()); got != 0 {
		t.Errorf("len(edges) = %d, want 0", got)
	}
	if s.History().CanUndo() {
		t.Error("abandoned connect produced a history entry")
	}
}

func TestConnectDuplicatePairIsRejected(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	mustAddEdge(t, s, &scene.Edge{ID: "e1", From: "b", To: "a", FromHandle: geom.SideLeft, ToHandle: geom.SideRight})

	drag(s, clk, primaryAt(100, 25), primaryAt(190, 25))

	if got := len(s.Scene().Edges()); got != 1 {
		t.Errorf("len(edges) = %d, want 1", got)
	}
	if s.History().CanUndo() {
		t.Error("rejected connect produced a history entry")
	}
}

func TestReconnectMovesEndpoint(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
		testNode("c", 200, 100, 100, 50),
	)
	mustAddEdge(t, s, &scene.Edge{ID: "e1", From: "a", To: "b", FromHandle: geom.SideRight, ToHandle: geom.SideLeft})
	s.Selection().SelectEdge("e1")

	// Grab the endpoint marker at b's left handle and drop near c.
	drag(s, clk, primaryAt(200, 25), primaryAt(205, 120))

	e := s.Scene().Edge("e1")
	if e.To != "c" || e.ToHandle != geom.SideLeft {
		t.Errorf("To = %s/%v, want c/left", e.To, e.ToHandle)
	}
	if e.From != "a" {
		t.Errorf("From = %s, want a", e.From)
	}

	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	if got, want := s.Scene().Edge("e1").To, "b"; got != want {
		t.Errorf("To = %s after undo, want %s", got, want)
	}
}

func TestReconnectWithoutTargetIsDiscarded(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	mustAddEdge(t, s, &scene.Edge{ID: "e1", From: "a", To: "b", FromHandle: geom.SideRight, ToHandle: geom.SideLeft})
	s.Selection().SelectEdge("e1")

	// Drop the To endpoint in empty space, outside any snap range.
	drag(s, clk, primaryAt(200, 25), primaryAt(150, 300))

	e := s.Scene().Edge("e1")
	if e.To != "b" {
		t.Errorf("To = %s, want b", e.To)
	}
	if s.History().CanUndo() {
		t.Error("discarded reconnect produced a history entry")
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 200, 100))
	// Press in the bottom-right corner square, drag far up-left.
	drag(s, clk, primaryAt(195, 95), primaryAt(0, 0))

	n := s.Scene().Node("a")
	if n.Width != scene.MinNodeWidth || n.Height != scene.MinNodeHeight {
		t.Errorf("size = %vx%v, want %vx%v", n.Width, n.Height, scene.MinNodeWidth, scene.MinNodeHeight)
	}

	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	n = s.Scene().Node("a")
	if n.Width != 200 || n.Height != 100 {
		t.Errorf("after undo size = %vx%v, want 200x100", n.Width, n.Height)
	}
	if s.History().CanUndo() {
		t.Error("resize produced more than one history entry")
	}
}

func TestResizeAccountsForViewportScale(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 200, 100))
	s.SetTransform(geom.Transform{Scale: 2})

	// Screen (390, 190) is world (195, 95), inside the corner square.
	drag(s, clk, primaryAt(390, 190), primaryAt(490, 290))

	n := s.Scene().Node("a")
	if n.Width != 250 || n.Height != 150 {
		t.Errorf("size = %vx%v, want 250x150", n.Width, n.Height)
	}
}

func TestResizeGroupSticks(t *testing.T) {
	g := testGroup("g", 0, 0, 300, 200)
	child := testNode("a", 50, 60, 100, 50)
	child.ParentID = "g"
	s, clk := newTestSession(t, g, child)

	// Press in the group's corner square, drag well past the children.
	drag(s, clk, primaryAt(295, 195), primaryAt(600, 500))

	gn := s.Scene().Node("g")
	if gn.Width != 605 || gn.Height != 505 {
		t.Errorf("group size = %vx%v, want 605x505", gn.Width, gn.Height)
	}
	c := s.Scene().Node("a")
	if c.X != 50 || c.Y != 60 || c.Width != 100 || c.Height != 50 {
		t.Errorf("child rect = (%v, %v, %v, %v), want (50, 60, 100, 50)",
			c.X, c.Y, c.Width, c.Height)
	}
	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	gn = s.Scene().Node("g")
	if gn.Width != 300 || gn.Height != 200 {
		t.Errorf("after undo group size = %vx%v, want 300x200", gn.Width, gn.Height)
	}
}

func TestResizeChildGrowsGroup(t *testing.T) {
	g := testGroup("g", 0, 0, 300, 200)
	child := testNode("a", 50, 60, 100, 50)
	child.ParentID = "g"
	s, clk := newTestSession(t, g, child)

	// Press in the child's corner square, drag past the group edge.
	drag(s, clk, primaryAt(145, 105), primaryAt(400, 400))

	c := s.Scene().Node("a")
	if c.Width != 355 || c.Height != 345 {
		t.Fatalf("child size = %vx%v, want 355x345", c.Width, c.Height)
	}
	gn := s.Scene().Node("g")
	// Padded union of the grown child, with title room at the top.
	if gn.X != 20 || gn.Y != -10 || gn.Width != 415 || gn.Height != 445 {
		t.Errorf("group rect = (%v, %v, %v, %v), want (20, -10, 415, 445)",
			gn.X, gn.Y, gn.Width, gn.Height)
	}
}

func TestClickEdgeSelectsIt(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	mustAddEdge(t, s, &scene.Edge{
		ID: "e1", From: "a", To: "b",
		FromHandle: geom.SideRight, ToHandle: geom.SideLeft,
		Routing: geom.RoutingStraight,
	})

	s.PointerDown(primaryAt(150, 27))
	if got, want := s.Selection().EdgeID(), "e1"; got != want {
		t.Errorf("EdgeID = %q, want %q", got, want)
	}
	if got, want := s.State(), StateIdle; got != want {
		t.Errorf("State = %v, want %v", got, want)
	}
	clk.advance(2 * frameInterval)
	s.PointerUp(primaryAt(150, 27))
}

func TestBreakpointDragMigratesLegacyControlPoint(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	mustAddEdge(t, s, &scene.Edge{
		ID: "e1", From: "a", To: "b",
		FromHandle: geom.SideRight, ToHandle: geom.SideLeft,
		Routing:      geom.RoutingStraight,
		ControlPoint: &geom.Point{X: 150, Y: 80},
	})
	s.Selection().SelectEdge("e1")

	drag(s, clk, primaryAt(150, 80), primaryAt(160, 90))

	e := s.Scene().Edge("e1")
	if e.ControlPoint != nil {
		t.Error("legacy control point survived the drag")
	}
	if len(e.Breakpoints) != 1 || e.Breakpoints[0] != (geom.Point{X: 160, Y: 90}) {
		t.Errorf("Breakpoints = %v, want [(160, 90)]", e.Breakpoints)
	}

	if !s.Undo() {
		t.Fatal("Undo returned false")
	}
	e = s.Scene().Edge("e1")
	if e.ControlPoint == nil || *e.ControlPoint != (geom.Point{X: 150, Y: 80}) {
		t.Errorf("ControlPoint = %v after undo, want (150, 80)", e.ControlPoint)
	}
}

func TestPointerMoveCoalescesWithinFrame(t *testing.T) {
	s, _ := newTestSession(t)
	s.PointerDown(PointerEvent{Pos: geom.Point{X: 0, Y: 0}, Button: ButtonMiddle})

	// The first move processes immediately; the next two land inside the
	// same frame, so only the last survives and applies on release.
	s.PointerMove(primaryAt(10, 0))
	s.PointerMove(primaryAt(20, 0))
	s.PointerMove(primaryAt(30, 0))
	if got, want := s.Transform().X, 10.0; got != want {
		t.Errorf("Transform.X = %v mid-frame, want %v", got, want)
	}

	s.PointerUp(primaryAt(30, 0))
	if got, want := s.Transform().X, 30.0; got != want {
		t.Errorf("Transform.X = %v after release, want %v", got, want)
	}
}

func TestPointerDownIgnoredDuringGesture(t *testing.T) {
	s, clk := newTestSession(t, testNode("a", 0, 0, 100, 50))
	s.PointerDown(primaryAt(40, 20))
	if got, want := s.State(), StateDraggingNodes; got != want {
		t.Fatalf("State = %v, want %v", got, want)
	}
	s.PointerDown(PointerEvent{Pos: geom.Point{X: 500, Y: 500}, Button: ButtonMiddle})
	if got, want := s.State(), StateDraggingNodes; got != want {
		t.Errorf("State = %v after nested down, want %v", got, want)
	}
	clk.advance(2 * frameInterval)
	s.PointerUp(primaryAt(40, 20))
}

func TestPendingConnectionPreview(t *testing.T) {
	s, clk := newTestSession(t,
		testNode("a", 0, 0, 100, 50),
		testNode("b", 200, 0, 100, 50),
	)
	s.PointerDown(primaryAt(100, 25))
	clk.advance(2 * frameInterval)
	s.PointerMove(primaryAt(190, 25))

	from, to, snapped, active := s.PendingConnection()
	if !active {
		t.Fatal("PendingConnection inactive during connect")
	}
	if from != (geom.Point{X: 100, Y: 25}) {
		t.Errorf("from = %v, want (100, 25)", from)
	}
	if !snapped || to != (geom.Point{X: 200, Y: 25}) {
		t.Errorf("to = %v snapped=%v, want (200, 25) snapped", to, snapped)
	}
	clk.advance(2 * frameInterval)
	s.PointerUp(primaryAt(190, 25))

	if _, _, _, active := s.PendingConnection(); active {
		t.Error("PendingConnection still active after release")
	}
}

func mustAddEdge(t *testing.T, s *Session, e *scene.Edge) {
	t.Helper()
	if err := s.Scene().AddEdge(e); err != nil {
		t.Fatalf("AddEdge(%s): %v", e.ID, err)
	}
}
