// Package geom implements the geometry engine for the diagram editor.
//
// All functions operate on world-space coordinates unless noted otherwise.
// The package is pure: no function mutates its inputs, and degenerate
// inputs (zero-length vectors, coincident points) produce defined outputs
// rather than errors.
package geom

import "math"

// Point is a position in world units.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{p.X + d.X, p.Y + d.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Mid returns the arithmetic midpoint of p and q.
func Mid(p, q Point) Point {
	return Point{(p.X + q.X) / 2, (p.Y + q.Y) / 2}
}

// Rect is an axis-aligned rectangle in world units.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's center point.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// ContainsRect reports whether inner lies fully inside r.
func (r Rect) ContainsRect(inner Rect) bool {
	return inner.X >= r.X && inner.Y >= r.Y &&
		inner.X+inner.W <= r.X+r.W && inner.Y+inner.H <= r.Y+r.H
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 { return r.W * r.H }

// Expand returns r grown outward by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{X: r.X - d, Y: r.Y - d, W: r.W + 2*d, H: r.H + 2*d}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x1 := math.Min(r.X, o.X)
	y1 := math.Min(r.Y, o.Y)
	x2 := math.Max(r.X+r.W, o.X+o.W)
	y2 := math.Max(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// NormalizedRect builds a rectangle from two corner points in any order.
func NormalizedRect(a, b Point) Rect {
	x1 := math.Min(a.X, b.X)
	y1 := math.Min(a.Y, b.Y)
	return Rect{X: x1, Y: y1, W: math.Abs(a.X - b.X), H: math.Abs(a.Y - b.Y)}
}

// Side identifies one of the four fixed attachment points on a node's box.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the wire name of the side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// ParseSide converts a wire name back to a Side. Unknown names map to
// SideTop so that malformed documents stay renderable.
func ParseSide(s string) Side {
	switch s {
	case "right":
		return SideRight
	case "bottom":
		return SideBottom
	case "left":
		return SideLeft
	default:
		return SideTop
	}
}

// Vertical reports whether the side's outward axis is vertical.
// Top and bottom handles point along Y; left and right along X.
func (s Side) Vertical() bool { return s == SideTop || s == SideBottom }

// outward returns the unit direction pointing away from the node for a side.
func (s Side) outward() Point {
	switch s {
	case SideTop:
		return Point{0, -1}
	case SideRight:
		return Point{1, 0}
	case SideBottom:
		return Point{0, 1}
	default:
		return Point{-1, 0}
	}
}

// HandlePosition returns the midpoint of the requested side of the box.
func HandlePosition(r Rect, side Side) Point {
	switch side {
	case SideTop:
		return Point{r.X + r.W/2, r.Y}
	case SideRight:
		return Point{r.X + r.W, r.Y + r.H/2}
	case SideBottom:
		return Point{r.X + r.W/2, r.Y + r.H}
	default:
		return Point{r.X, r.Y + r.H/2}
	}
}

// Sides lists all four handle sides in scan order.
var Sides = [4]Side{SideTop, SideRight, SideBottom, SideLeft}

// Transform is the affine screen↔world viewport map. Screen = world*Scale
// + translation. Scale must be positive; the scene layer clamps it to
// [MinScale, MaxScale].
type Transform struct {
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
	Scale float64 `json:"scale" bson:"scale"`
}

// Viewport scale bounds.
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// ClampScale restricts s to the valid viewport scale range.
func ClampScale(s float64) float64 {
	return math.Min(MaxScale, math.Max(MinScale, s))
}

// ScreenToWorld maps a screen-space point into world space.
func ScreenToWorld(p Point, t Transform) Point {
	return Point{(p.X - t.X) / t.Scale, (p.Y - t.Y) / t.Scale}
}

// WorldToScreen maps a world-space point onto the screen.
func WorldToScreen(p Point, t Transform) Point {
	return Point{p.X*t.Scale + t.X, p.Y*t.Scale + t.Y}
}
