package geom

import "testing"

func testBoxes() []Box {
	return []Box{
		{ID: "a", Rect: Rect{0, 0, 100, 50}},
		{ID: "b", Rect: Rect{200, 0, 100, 50}},
		{ID: "c", Rect: Rect{0, 200, 100, 50}},
	}
}

func TestNearestHandle_FindsClosest(t *testing.T) {
	// Close to b's left handle at (200,25).
	ref, ok := NearestHandle(Point{195, 24}, testBoxes(), "", 30)
	if !ok {
		t.Fatal("expected a handle within threshold")
	}
	if ref.NodeID != "b" || ref.Side != SideLeft {
		t.Errorf("got %s/%v, want b/left", ref.NodeID, ref.Side)
	}
	if ref.Pos != (Point{200, 25}) {
		t.Errorf("Pos = %v, want (200,25)", ref.Pos)
	}
}

func TestNearestHandle_RespectsThreshold(t *testing.T) {
	_, ok := NearestHandle(Point{150, 25}, testBoxes(), "", 30)
	if ok {
		t.Error("no handle should match outside the threshold")
	}
}

func TestNearestHandle_NeverReturnsExcluded(t *testing.T) {
	// Directly on a's right handle, but a is excluded.
	ref, ok := NearestHandle(Point{100, 25}, testBoxes(), "a", 1000)
	if !ok {
		t.Fatal("expected some handle with a huge threshold")
	}
	if ref.NodeID == "a" {
		t.Errorf("returned excluded node's handle: %+v", ref)
	}
}

func TestNearestHandle_EmptyScene(t *testing.T) {
	if _, ok := NearestHandle(Point{0, 0}, nil, "", 50); ok {
		t.Error("empty scene must not produce a handle")
	}
}

func TestNearestHandle_TieKeepsFirst(t *testing.T) {
	boxes := []Box{
		{ID: "x", Rect: Rect{0, 0, 100, 50}},
		{ID: "y", Rect: Rect{100, 0, 100, 50}}, // y's left handle coincides with x's right
	}
	ref, ok := NearestHandle(Point{100, 25}, boxes, "", 10)
	if !ok {
		t.Fatal("expected a handle")
	}
	if ref.NodeID != "x" {
		t.Errorf("tie went to %s, want first box x", ref.NodeID)
	}
}

func TestDistanceToPath_Polyline(t *testing.T) {
	p := Path{Kind: PathPolyline, Points: []Point{{0, 0}, {100, 0}}}
	if d := DistanceToPath(Point{50, 10}, p); !almostEqual(d, 10) {
		t.Errorf("distance = %v, want 10", d)
	}
	if d := DistanceToPath(Point{-30, 0}, p); !almostEqual(d, 30) {
		t.Errorf("distance past endpoint = %v, want 30", d)
	}
}

func TestDistanceToPath_DegenerateSegment(t *testing.T) {
	p := Path{Kind: PathPolyline, Points: []Point{{5, 5}, {5, 5}}}
	if d := DistanceToPath(Point{8, 9}, p); !almostEqual(d, 5) {
		t.Errorf("distance = %v, want 5", d)
	}
}
