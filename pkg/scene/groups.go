package scene

import (
	"errors"
	"math"

	"github.com/ideamap/ideamap/pkg/geom"
)

// Group geometry constants.
const (
	// groupPadding surrounds the children's union box on recompute.
	groupPadding = 30
	// groupCreatePadding is the larger padding applied when a group is
	// first created.
	groupCreatePadding = 40
	// groupTitleOffset reserves room for the group's title bar; applied to
	// the top edge and height only.
	groupTitleOffset = 40
	// groupStabilityThreshold suppresses box writes smaller than this in
	// every dimension, preventing render churn from float noise.
	groupStabilityThreshold = 1
	// groupGridGap separates nodes laid out by CreateGroup.
	groupGridGap = 20
)

// ErrNoSelection is returned by CreateGroup and Align when no nodes are
// given.
var ErrNoSelection = errors.New("no nodes selected")

// ReconcileParents reassigns ParentID for the affected node, or for every
// non-group node when affectedID is empty. A node belongs to the group
// whose box contains its center; when several overlap, the smallest-area
// containing group wins, which keeps the assignment deterministic.
func (s *Scene) ReconcileParents(affectedID string) {
	for _, n := range s.nodes {
		if affectedID != "" && n.ID != affectedID {
			continue
		}
		if n.IsGroup() {
			// Groups never nest in this model.
			n.ParentID = ""
			continue
		}
		n.ParentID = s.containingGroup(n)
	}
}

// containingGroup returns the ID of the smallest-area group whose box
// contains the node's center, or "".
func (s *Scene) containingGroup(n *Node) string {
	best := ""
	bestArea := math.Inf(1)
	center := n.Center()
	for _, g := range s.nodes {
		if !g.IsGroup() || g.ID == n.ID {
			continue
		}
		r := g.Rect()
		if r.Contains(center) && r.Area() < bestArea {
			best = g.ID
			bestArea = r.Area()
		}
	}
	return best
}

// RecomputeGroupBounds grows or shrinks every group's box to the padded
// union of its children. Groups with no children keep their last box.
// Writes smaller than the stability threshold in every dimension are
// skipped.
func (s *Scene) RecomputeGroupBounds() {
	for _, g := range s.nodes {
		if !g.IsGroup() {
			continue
		}
		children := s.Children(g.ID)
		if len(children) == 0 {
			continue
		}
		box := paddedUnion(children, groupPadding)
		if stableEnough(g.Rect(), box) {
			continue
		}
		g.X, g.Y, g.Width, g.Height = box.X, box.Y, box.W, box.H
	}
}

// paddedUnion computes the union box of the nodes, expanded by pad on all
// sides with extra title room at the top.
func paddedUnion(nodes []*Node, pad float64) geom.Rect {
	u := nodes[0].Rect()
	for _, n := range nodes[1:] {
		u = u.Union(n.Rect())
	}
	u = u.Expand(pad)
	u.Y -= groupTitleOffset
	u.H += groupTitleOffset
	return u
}

func stableEnough(old, next geom.Rect) bool {
	return math.Abs(old.X-next.X) < groupStabilityThreshold &&
		math.Abs(old.Y-next.Y) < groupStabilityThreshold &&
		math.Abs(old.W-next.W) < groupStabilityThreshold &&
		math.Abs(old.H-next.H) < groupStabilityThreshold
}

// CreateGroup lays the selected nodes out into a grid anchored at their
// original top-left extent, creates a group node sized to the padded union
// of the laid-out boxes, and parents the nodes to it. Returns the new
// group node.
func (s *Scene) CreateGroup(ids []string) (*Node, error) {
	var members []*Node
	for _, id := range ids {
		if n := s.byID[id]; n != nil && !n.IsGroup() {
			members = append(members, n)
		}
	}
	if len(members) == 0 {
		return nil, ErrNoSelection
	}

	// Anchor the grid at the selection's original top-left extent.
	anchorX, anchorY := math.Inf(1), math.Inf(1)
	cellW, cellH := 0.0, 0.0
	for _, n := range members {
		anchorX = math.Min(anchorX, n.X)
		anchorY = math.Min(anchorY, n.Y)
		cellW = math.Max(cellW, n.Width)
		cellH = math.Max(cellH, n.Height)
	}

	cols := int(math.Ceil(math.Sqrt(float64(len(members)))))
	for i, n := range members {
		col := i % cols
		row := i / cols
		n.X = anchorX + float64(col)*(cellW+groupGridGap)
		n.Y = anchorY + float64(row)*(cellH+groupGridGap)
	}

	box := paddedUnion(members, groupCreatePadding)
	group := &Node{
		ID:     NewID(),
		Kind:   KindGroup,
		Title:  "Group",
		X:      box.X,
		Y:      box.Y,
		Width:  box.W,
		Height: box.H,
	}
	if err := s.AddNode(group); err != nil {
		return nil, err
	}
	for _, n := range members {
		n.ParentID = group.ID
	}
	return group, nil
}

// Disband deletes a group node; its children become parentless. Non-group
// IDs are a no-op.
func (s *Scene) Disband(groupID string) {
	g := s.byID[groupID]
	if g == nil || !g.IsGroup() {
		return
	}
	s.RemoveNode(groupID)
}

// Axis selects the alignment direction.
type Axis int

const (
	// AxisHorizontal aligns the nodes' vertical centers (same Y).
	AxisHorizontal Axis = iota
	// AxisVertical aligns the nodes' horizontal centers (same X).
	AxisVertical
)

// Align recenters the given nodes on the mean of their centers along the
// axis.
func (s *Scene) Align(ids []string, axis Axis) error {
	var members []*Node
	for _, id := range ids {
		if n := s.byID[id]; n != nil {
			members = append(members, n)
		}
	}
	if len(members) == 0 {
		return ErrNoSelection
	}

	var sum float64
	for _, n := range members {
		c := n.Center()
		if axis == AxisHorizontal {
			sum += c.Y
		} else {
			sum += c.X
		}
	}
	mean := sum / float64(len(members))
	for _, n := range members {
		if axis == AxisHorizontal {
			n.Y = mean - n.Height/2
		} else {
			n.X = mean - n.Width/2
		}
	}
	return nil
}
