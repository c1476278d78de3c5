package geom

import "math"

// Box pairs a node identifier with its world-space rectangle for handle
// scanning. The scene layer produces these in its stable node order.
type Box struct {
	ID   string
	Rect Rect
}

// HandleRef identifies a concrete handle found by NearestHandle.
type HandleRef struct {
	NodeID string
	Side   Side
	Pos    Point
}

// NearestHandle scans every handle of every box except excludeID and
// returns the closest one within threshold world units. The boolean
// reports whether any handle qualified. Ties keep the first handle in
// scan order (boxes in the given order, sides top/right/bottom/left).
func NearestHandle(p Point, boxes []Box, excludeID string, threshold float64) (HandleRef, bool) {
	best := HandleRef{}
	bestDist := threshold
	found := false
	for _, b := range boxes {
		if b.ID == excludeID {
			continue
		}
		for _, side := range Sides {
			hp := HandlePosition(b.Rect, side)
			d := p.Dist(hp)
			if d < bestDist || (!found && d <= threshold) {
				best = HandleRef{NodeID: b.ID, Side: side, Pos: hp}
				bestDist = d
				found = true
			}
		}
	}
	return best, found
}

// pathFlattenSteps is the number of segments used to approximate a curve
// for hit testing.
const pathFlattenSteps = 24

// Flatten approximates the path as a polyline. Polyline paths are returned
// as-is; curves are sampled uniformly in parameter space.
func (p Path) Flatten() []Point {
	switch p.Kind {
	case PathQuadratic:
		pts := make([]Point, 0, pathFlattenSteps+1)
		for i := 0; i <= pathFlattenSteps; i++ {
			t := float64(i) / pathFlattenSteps
			pts = append(pts, quadraticAt(p.Points[0], p.Points[1], p.Points[2], t))
		}
		return pts
	case PathCubic:
		pts := make([]Point, 0, pathFlattenSteps+1)
		for i := 0; i <= pathFlattenSteps; i++ {
			t := float64(i) / pathFlattenSteps
			pts = append(pts, cubicAt(p.Points[0], p.Points[1], p.Points[2], p.Points[3], t))
		}
		return pts
	default:
		return p.Points
	}
}

// DistanceToPath returns the shortest distance from p to the (flattened)
// path. A path with a single point reduces to point distance.
func DistanceToPath(p Point, path Path) float64 {
	pts := path.Flatten()
	if len(pts) == 1 {
		return p.Dist(pts[0])
	}
	best := math.Inf(1)
	for i := 0; i+1 < len(pts); i++ {
		if d := distanceToSegment(p, pts[i], pts[i+1]); d < best {
			best = d
		}
	}
	return best
}

// distanceToSegment returns the distance from p to segment ab. Coincident
// endpoints reduce to point distance.
func distanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{a.X + t*ab.X, a.Y + t*ab.Y})
}
