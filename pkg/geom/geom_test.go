package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestHandlePosition_Sides(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	tests := []struct {
		side Side
		want Point
	}{
		{SideTop, Point{60, 20}},
		{SideRight, Point{110, 45}},
		{SideBottom, Point{60, 70}},
		{SideLeft, Point{10, 45}},
	}
	for _, tt := range tests {
		got := HandlePosition(r, tt.side)
		if got != tt.want {
			t.Errorf("HandlePosition(%v) = %v, want %v", tt.side, got, tt.want)
		}
	}
}

func TestHandlePosition_EdgeAlignment(t *testing.T) {
	r := Rect{X: -30, Y: 7, W: 160, H: 90}

	if got := HandlePosition(r, SideTop); !almostEqual(got.Y, r.Y) {
		t.Errorf("top handle y = %v, want %v", got.Y, r.Y)
	}
	if got := HandlePosition(r, SideBottom); !almostEqual(got.Y, r.Y+r.H) {
		t.Errorf("bottom handle y = %v, want %v", got.Y, r.Y+r.H)
	}
	if got := HandlePosition(r, SideLeft); !almostEqual(got.X, r.X) {
		t.Errorf("left handle x = %v, want %v", got.X, r.X)
	}
	if got := HandlePosition(r, SideRight); !almostEqual(got.X, r.X+r.W) {
		t.Errorf("right handle x = %v, want %v", got.X, r.X+r.W)
	}
}

func TestScreenToWorld_InvertsForward(t *testing.T) {
	transforms := []Transform{
		{X: 0, Y: 0, Scale: 1},
		{X: 120, Y: -45, Scale: 0.5},
		{X: -3.5, Y: 99, Scale: 2.25},
		{X: 0.001, Y: 0.001, Scale: 0.1},
	}
	points := []Point{{0, 0}, {100, 50}, {-17.5, 3.25}, {1e6, -1e6}}

	for _, tr := range transforms {
		for _, p := range points {
			rt := ScreenToWorld(WorldToScreen(p, tr), tr)
			if !almostEqual(rt.X, p.X) || !almostEqual(rt.Y, p.Y) {
				t.Errorf("round trip %v through %v = %v", p, tr, rt)
			}
		}
	}
}

func TestScreenToWorld_Formula(t *testing.T) {
	tr := Transform{X: 10, Y: 20, Scale: 2}
	got := ScreenToWorld(Point{30, 60}, tr)
	want := Point{10, 20}
	if got != want {
		t.Errorf("ScreenToWorld = %v, want %v", got, want)
	}
}

func TestClampScale(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0.01, 0.1},
		{0.1, 0.1},
		{1, 1},
		{5, 5},
		{12, 5},
	}
	for _, tt := range tests {
		if got := ClampScale(tt.in); got != tt.want {
			t.Errorf("ClampScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRect_ContainsRect(t *testing.T) {
	outer := Rect{0, 0, 100, 100}
	if !outer.ContainsRect(Rect{10, 10, 20, 20}) {
		t.Error("inner rect should be contained")
	}
	if outer.ContainsRect(Rect{90, 90, 20, 20}) {
		t.Error("overlapping rect should not count as contained")
	}
	if !outer.ContainsRect(outer) {
		t.Error("rect should contain itself")
	}
}

func TestNormalizedRect(t *testing.T) {
	r := NormalizedRect(Point{50, 60}, Point{10, 20})
	want := Rect{10, 20, 40, 40}
	if r != want {
		t.Errorf("NormalizedRect = %v, want %v", r, want)
	}
}
