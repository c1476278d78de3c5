package geom

import "math"

// Routing selects the path synthesis strategy for an edge.
type Routing int

const (
	// RoutingBezier draws a curved path: quadratic through a single
	// breakpoint, cubic when there are none.
	RoutingBezier Routing = iota
	// RoutingStraight draws a polyline through the breakpoints.
	RoutingStraight
	// RoutingStep draws an orthogonal path with right-angle corners.
	// Step edges carry no breakpoints.
	RoutingStep
)

// String returns the wire name of the routing strategy.
func (r Routing) String() string {
	switch r {
	case RoutingStraight:
		return "straight"
	case RoutingStep:
		return "step"
	default:
		return "bezier"
	}
}

// ParseRouting converts a wire name to a Routing. Unknown names map to
// the bezier default.
func ParseRouting(s string) Routing {
	switch s {
	case "straight":
		return RoutingStraight
	case "step":
		return RoutingStep
	default:
		return RoutingBezier
	}
}

// PathKind discriminates the geometric form of a synthesized path.
type PathKind int

const (
	// PathPolyline is a sequence of straight segments through Points.
	PathPolyline PathKind = iota
	// PathQuadratic is a quadratic Bézier: Points holds [start, control, end].
	PathQuadratic
	// PathCubic is a cubic Bézier: Points holds [start, c1, c2, end].
	PathCubic
)

// Path is the concrete screen-ready form of an edge, produced by
// SynthesizePath. Points always starts at the source handle position and
// ends at the target handle position.
type Path struct {
	Kind   PathKind
	Points []Point
}

// Start returns the first point of the path.
func (p Path) Start() Point { return p.Points[0] }

// End returns the last point of the path.
func (p Path) End() Point { return p.Points[len(p.Points)-1] }

// Step edges offset each endpoint this many world units outward along its
// handle axis before turning.
const stepStandoff = 20

// Cubic control points extend at most this far from their handle.
const maxBezierOffset = 100

// SynthesizePath converts an abstract edge into a concrete path between
// the two handle points. The switch over routing is exhaustive; every
// strategy yields a defined path for any input.
func SynthesizePath(start, end Point, fromSide, toSide Side, routing Routing, breakpoints []Point) Path {
	switch routing {
	case RoutingStraight:
		return polylinePath(start, end, breakpoints)
	case RoutingStep:
		return stepPath(start, end, fromSide, toSide)
	default: // RoutingBezier
		switch len(breakpoints) {
		case 0:
			c1, c2 := cubicControls(start, end, fromSide, toSide)
			return Path{Kind: PathCubic, Points: []Point{start, c1, c2, end}}
		case 1:
			return Path{Kind: PathQuadratic, Points: []Point{start, breakpoints[0], end}}
		default:
			// Two or more breakpoints degrade to a straight polyline.
			return polylinePath(start, end, breakpoints)
		}
	}
}

func polylinePath(start, end Point, breakpoints []Point) Path {
	pts := make([]Point, 0, len(breakpoints)+2)
	pts = append(pts, start)
	pts = append(pts, breakpoints...)
	pts = append(pts, end)
	return Path{Kind: PathPolyline, Points: pts}
}

// stepPath builds the orthogonal route. Both endpoints stand off 20 units
// outward along their handle axes. When both standoffs share an axis
// orientation the path jogs through the midpoint of that axis; otherwise a
// single right-angle corner joins them.
func stepPath(start, end Point, fromSide, toSide Side) Path {
	so := fromSide.outward()
	to := toSide.outward()
	s := Point{start.X + so.X*stepStandoff, start.Y + so.Y*stepStandoff}
	e := Point{end.X + to.X*stepStandoff, end.Y + to.Y*stepStandoff}

	pts := []Point{start, s}
	switch {
	case fromSide.Vertical() && toSide.Vertical():
		midY := (s.Y + e.Y) / 2
		pts = append(pts, Point{s.X, midY}, Point{e.X, midY})
	case !fromSide.Vertical() && !toSide.Vertical():
		midX := (s.X + e.X) / 2
		pts = append(pts, Point{midX, s.Y}, Point{midX, e.Y})
	case fromSide.Vertical():
		pts = append(pts, Point{s.X, e.Y})
	default: // target side is vertical
		pts = append(pts, Point{e.X, s.Y})
	}
	pts = append(pts, e, end)
	return Path{Kind: PathPolyline, Points: pts}
}

// cubicControls projects the two control points for a breakpoint-free
// bezier edge: each handle point displaced outward along its axis by
// min(0.5*distance, 100).
func cubicControls(start, end Point, fromSide, toSide Side) (Point, Point) {
	offset := math.Min(start.Dist(end)*0.5, maxBezierOffset)
	so := fromSide.outward()
	to := toSide.outward()
	c1 := Point{start.X + so.X*offset, start.Y + so.Y*offset}
	c2 := Point{end.X + to.X*offset, end.Y + to.Y*offset}
	return c1, c2
}

// quadraticAt evaluates the quadratic Bézier through control c at t.
func quadraticAt(start, c, end Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*start.X + 2*u*t*c.X + t*t*end.X,
		Y: u*u*start.Y + 2*u*t*c.Y + t*t*end.Y,
	}
}

// cubicAt evaluates the cubic Bézier with controls c1, c2 at t.
func cubicAt(start, c1, c2, end Point, t float64) Point {
	u := 1 - t
	return Point{
		X: u*u*u*start.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*end.X,
		Y: u*u*u*start.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*end.Y,
	}
}

// LabelPoint returns the world position where an edge label is anchored.
//
// Step edges use the mean of the endpoints. A single breakpoint anchors on
// the quadratic curve at t=0.5. Two or more breakpoints anchor on the mean
// of the middle breakpoint and its successor (or the end point if none).
// Everything else uses the cubic motion law at t=0.5 with the same control
// projection as path synthesis.
func LabelPoint(start, end Point, fromSide, toSide Side, routing Routing, breakpoints []Point) Point {
	if routing == RoutingStep {
		return Mid(start, end)
	}
	switch n := len(breakpoints); {
	case n == 1:
		return quadraticAt(start, breakpoints[0], end, 0.5)
	case n >= 2:
		mid := breakpoints[n/2]
		next := end
		if n/2+1 < n {
			next = breakpoints[n/2+1]
		}
		return Mid(mid, next)
	default:
		c1, c2 := cubicControls(start, end, fromSide, toSide)
		return cubicAt(start, c1, c2, end, 0.5)
	}
}
