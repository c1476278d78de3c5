package geom

import "math"

// sideArrowAngle maps a handle side to the arrowhead rotation used for
// straight and step edges: the fixed inward direction of that side, in
// degrees. Curve derivatives are not consulted for these routings.
var sideArrowAngle = map[Side]float64{
	SideTop:    90,
	SideRight:  180,
	SideBottom: 270,
	SideLeft:   0,
}

// ArrowAngleAtEnd returns the rotation in degrees for an arrowhead placed
// at the target end of an edge (parameter t=1).
//
// Bezier edges use the tangent of the quadratic or cubic derivative. Edges
// with two or more breakpoints intentionally keep the two-control-point
// cubic formula even though the drawn path degrades to a polyline, matching
// the editor's historical rendering. Straight and step edges take the angle
// directly from the target handle's axis.
func ArrowAngleAtEnd(start, end Point, fromSide, toSide Side, routing Routing, breakpoints []Point) float64 {
	if routing == RoutingStraight || routing == RoutingStep {
		return sideArrowAngle[toSide]
	}
	if len(breakpoints) == 1 {
		// Quadratic derivative at t=1: 2*(end - control).
		return degrees(end.Sub(breakpoints[0]))
	}
	_, c2 := cubicControls(start, end, fromSide, toSide)
	// Cubic derivative at t=1: 3*(end - c2).
	return degrees(end.Sub(c2))
}

// ArrowAngleAtStart returns the rotation in degrees for an arrowhead placed
// at the source end of an edge (parameter t=0). The tangent is reversed so
// the head points into the source node.
func ArrowAngleAtStart(start, end Point, fromSide, toSide Side, routing Routing, breakpoints []Point) float64 {
	if routing == RoutingStraight || routing == RoutingStep {
		return sideArrowAngle[fromSide]
	}
	var tangent Point
	if len(breakpoints) == 1 {
		// Quadratic derivative at t=0: 2*(control - start).
		tangent = breakpoints[0].Sub(start)
	} else {
		c1, _ := cubicControls(start, end, fromSide, toSide)
		// Cubic derivative at t=0: 3*(c1 - start).
		tangent = c1.Sub(start)
	}
	return degrees(Point{-tangent.X, -tangent.Y})
}

// degrees converts a direction vector to degrees in [0, 360).
// A zero-length vector yields 0.
func degrees(v Point) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	deg := math.Atan2(v.Y, v.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
