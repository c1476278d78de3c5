package scene

import "github.com/ideamap/ideamap/pkg/geom"

// Style is the stroke style of an edge.
type Style string

const (
	StyleSolid  Style = "solid"
	StyleDashed Style = "dashed"
	StyleDotted Style = "dotted"
)

// Arrow selects which ends of an edge carry arrowheads.
type Arrow string

const (
	ArrowNone Arrow = "none"
	ArrowTo   Arrow = "to"
	ArrowFrom Arrow = "from"
	ArrowBoth Arrow = "both"
)

// Edge is a directed, routed relation between two nodes.
type Edge struct {
	ID   string
	From string
	To   string

	FromHandle geom.Side
	ToHandle   geom.Side
	Routing    geom.Routing

	// Breakpoints shape the path in world space, ordered from source to
	// target.
	Breakpoints []geom.Point

	// ControlPoint is the legacy single-point field from version-0
	// documents. It is treated as Breakpoints[0] until the first shape
	// edit migrates it.
	ControlPoint *geom.Point

	Style Style
	Color string
	Arrow Arrow
	Label string
}

// EffectiveBreakpoints returns the breakpoints to use for geometry,
// falling back to the legacy control point when no breakpoints exist.
func (e *Edge) EffectiveBreakpoints() []geom.Point {
	if len(e.Breakpoints) == 0 && e.ControlPoint != nil {
		return []geom.Point{*e.ControlPoint}
	}
	return e.Breakpoints
}

// MigrateControlPoint folds the legacy control point into Breakpoints.
// Called before any write to the edge's shape; a no-op once migrated.
func (e *Edge) MigrateControlPoint() {
	if e.ControlPoint == nil {
		return
	}
	if len(e.Breakpoints) == 0 {
		e.Breakpoints = []geom.Point{*e.ControlPoint}
	}
	e.ControlPoint = nil
}

// Clone returns a deep copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	if e.Breakpoints != nil {
		c.Breakpoints = make([]geom.Point, len(e.Breakpoints))
		copy(c.Breakpoints, e.Breakpoints)
	}
	if e.ControlPoint != nil {
		cp := *e.ControlPoint
		c.ControlPoint = &cp
	}
	return &c
}

// Connects reports whether the edge joins nodes a and b in either
// direction.
func (e *Edge) Connects(a, b string) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}
