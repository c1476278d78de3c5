package editor

import (
	"fmt"
	"math"

	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

// Idea is one result from the idea-expansion backend.
type Idea struct {
	Title string
	Body  string
}

// Expansion layout: results fan radially around the source node at a
// fixed radius with equal angular spacing, at most four per request.
const (
	MaxExpansionIdeas = 4
	expansionRadius   = 250
)

// BeginExpansion claims the single expansion slot. It returns false when
// a request is already in flight; the caller must not start another.
// The network call itself runs outside the session; the scene is never
// touched until the result arrives back on the UI goroutine via
// ApplyExpansion or FailExpansion.
func (s *Session) BeginExpansion() bool {
	if s.expanding {
		return false
	}
	s.expanding = true
	return true
}

// Expanding reports whether an expansion request is in flight.
func (s *Session) Expanding() bool { return s.expanding }

// FailExpansion releases the expansion slot without mutating the scene.
func (s *Session) FailExpansion() { s.expanding = false }

// ApplyExpansion commits the backend's ideas as one batch: a single
// history checkpoint, one new node per idea fanned radially around the
// source, and one edge from the source to each. On any error nothing is
// mutated. The expansion slot is released either way.
func (s *Session) ApplyExpansion(sourceID string, ideas []Idea) error {
	s.expanding = false
	src := s.scene.Node(sourceID)
	if src == nil {
		return fmt.Errorf("expansion source %s no longer exists", sourceID)
	}
	if len(ideas) == 0 {
		return nil
	}
	if len(ideas) > MaxExpansionIdeas {
		ideas = ideas[:MaxExpansionIdeas]
	}

	s.history.Checkpoint(s.scene)
	center := src.Center()
	n := float64(len(ideas))
	for i, idea := range ideas {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/n
		pos := geom.Point{
			X: center.X + expansionRadius*math.Cos(angle),
			Y: center.Y + expansionRadius*math.Sin(angle),
		}
		node := &scene.Node{
			ID:      scene.NewID(),
			Kind:    scene.KindStandard,
			Title:   idea.Title,
			Content: idea.Body,
			X:       pos.X - scene.DefaultNodeWidth/2,
			Y:       pos.Y - scene.DefaultNodeHeight/2,
			Width:   scene.DefaultNodeWidth,
			Height:  scene.DefaultNodeHeight,
		}
		if err := s.scene.AddNode(node); err != nil {
			s.history.Rollback(s.scene)
			return fmt.Errorf("insert idea node: %w", err)
		}
		edge := &scene.Edge{
			ID:         scene.NewID(),
			From:       sourceID,
			To:         node.ID,
			FromHandle: fanHandle(angle),
			ToHandle:   oppositeSide(fanHandle(angle)),
			Routing:    geom.RoutingBezier,
			Style:      scene.StyleSolid,
			Arrow:      scene.ArrowTo,
		}
		if err := s.scene.AddEdge(edge); err != nil {
			s.history.Rollback(s.scene)
			return fmt.Errorf("connect idea node: %w", err)
		}
	}
	s.scene.ReconcileParents("")
	s.scene.RecomputeGroupBounds()
	return nil
}

// fanHandle picks the source handle facing the fan direction.
func fanHandle(angle float64) geom.Side {
	x, y := math.Cos(angle), math.Sin(angle)
	if math.Abs(x) >= math.Abs(y) {
		if x >= 0 {
			return geom.SideRight
		}
		return geom.SideLeft
	}
	if y >= 0 {
		return geom.SideBottom
	}
	return geom.SideTop
}

func oppositeSide(s geom.Side) geom.Side {
	switch s {
	case geom.SideTop:
		return geom.SideBottom
	case geom.SideBottom:
		return geom.SideTop
	case geom.SideLeft:
		return geom.SideRight
	default:
		return geom.SideLeft
	}
}
