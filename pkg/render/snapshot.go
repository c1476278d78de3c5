package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ideamap/ideamap/pkg/geom"
	"github.com/ideamap/ideamap/pkg/scene"
)

// Snapshot rendering parameters, in world units unless noted.
const (
	snapshotPadding  = 40.0
	nodeCornerRadius = 8.0
	arrowSize        = 10.0
	fontSize         = 14.0 // pixels
	groupTitleInset  = 14.0
)

// SnapshotOptions configures raster export.
type SnapshotOptions struct {
	// Scale is pixels per world unit. Zero means 1.
	Scale float64
}

// Snapshot renders the scene to an image using the same path synthesis
// the canvas uses, so exported curves match what was on screen.
func Snapshot(sc *scene.Scene, opts SnapshotOptions) (image.Image, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	bounds, ok := sceneBounds(sc)
	if !ok {
		return nil, fmt.Errorf("nothing to render")
	}
	bounds = bounds.Expand(snapshotPadding)

	w := int(math.Ceil(bounds.W * scale))
	h := int(math.Ceil(bounds.H * scale))
	dc := gg.NewContext(w, h)
	dc.SetHexColor("#ffffff")
	dc.Clear()
	dc.Scale(scale, scale)
	dc.Translate(-bounds.X, -bounds.Y)

	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(font, &truetype.Options{Size: fontSize}))

	// Paint order matches the canvas: groups behind, then edges, then
	// nodes.
	for _, n := range sc.Nodes() {
		if n.IsGroup() {
			drawGroup(dc, n)
		}
	}
	for _, e := range sc.Edges() {
		drawEdge(dc, sc, e)
	}
	for _, n := range sc.Nodes() {
		if !n.IsGroup() {
			drawNode(dc, n)
		}
	}
	return dc.Image(), nil
}

// WritePNG renders the scene and writes it as PNG.
func WritePNG(w io.Writer, sc *scene.Scene, opts SnapshotOptions) error {
	img, err := Snapshot(sc, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG renders the scene to a PNG file.
func SavePNG(path string, sc *scene.Scene, opts SnapshotOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePNG(f, sc, opts)
}

// sceneBounds is the union of node boxes and edge breakpoints.
func sceneBounds(sc *scene.Scene) (geom.Rect, bool) {
	nodes := sc.Nodes()
	if len(nodes) == 0 {
		return geom.Rect{}, false
	}
	bounds := nodes[0].Rect()
	for _, n := range nodes[1:] {
		bounds = bounds.Union(n.Rect())
	}
	for _, e := range sc.Edges() {
		for _, bp := range e.EffectiveBreakpoints() {
			bounds = bounds.Union(geom.Rect{X: bp.X, Y: bp.Y})
		}
	}
	return bounds, true
}

func drawGroup(dc *gg.Context, n *scene.Node) {
	dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, nodeCornerRadius)
	dc.SetHexColor("#f2f4f7")
	dc.FillPreserve()
	dc.SetHexColor("#b8c0cc")
	dc.SetLineWidth(1.5)
	dc.SetDash(6, 4)
	dc.Stroke()
	dc.SetDash()

	if n.Title != "" {
		dc.SetHexColor("#6b7280")
		dc.DrawString(n.Title, n.X+groupTitleInset, n.Y+groupTitleInset+fontSize/2)
	}
}

func drawNode(dc *gg.Context, n *scene.Node) {
	dc.DrawRoundedRectangle(n.X, n.Y, n.Width, n.Height, nodeCornerRadius)
	if n.Color != "" {
		dc.SetHexColor(n.Color)
	} else {
		dc.SetHexColor("#ffffff")
	}
	dc.FillPreserve()
	dc.SetHexColor("#1f2937")
	dc.SetLineWidth(1.5)
	dc.Stroke()

	if n.Title != "" {
		c := n.Center()
		dc.SetHexColor("#111827")
		dc.DrawStringWrapped(n.Title, c.X, c.Y, 0.5, 0.5, n.Width-12, 1.3, gg.AlignCenter)
	}
}

func drawEdge(dc *gg.Context, sc *scene.Scene, e *scene.Edge) {
	from := sc.Node(e.From)
	to := sc.Node(e.To)
	if from == nil || to == nil {
		return
	}
	start := geom.HandlePosition(from.Rect(), e.FromHandle)
	end := geom.HandlePosition(to.Rect(), e.ToHandle)
	bps := e.EffectiveBreakpoints()
	path := geom.SynthesizePath(start, end, e.FromHandle, e.ToHandle, e.Routing, bps)

	if e.Color != "" {
		dc.SetHexColor(e.Color)
	} else {
		dc.SetHexColor("#4b5563")
	}
	dc.SetLineWidth(1.5)
	switch e.Style {
	case scene.StyleDashed:
		dc.SetDash(8, 5)
	case scene.StyleDotted:
		dc.SetDash(2, 4)
	}

	pts := path.Flatten()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
	dc.SetDash()

	if e.Arrow == scene.ArrowTo || e.Arrow == scene.ArrowBoth {
		angle := geom.ArrowAngleAtEnd(start, end, e.FromHandle, e.ToHandle, e.Routing, bps)
		drawArrowhead(dc, end, angle)
	}
	if e.Arrow == scene.ArrowFrom || e.Arrow == scene.ArrowBoth {
		angle := geom.ArrowAngleAtStart(start, end, e.FromHandle, e.ToHandle, e.Routing, bps)
		drawArrowhead(dc, start, angle)
	}

	if e.Label != "" {
		p := geom.LabelPoint(start, end, e.FromHandle, e.ToHandle, e.Routing, bps)
		dc.SetHexColor("#374151")
		dc.DrawStringAnchored(e.Label, p.X, p.Y-6, 0.5, 0)
	}
}

// drawArrowhead fills a triangle at tip, pointing along angle (degrees,
// the direction the arrow flies).
func drawArrowhead(dc *gg.Context, tip geom.Point, angleDeg float64) {
	rad := angleDeg * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	// Wings sit back from the tip, splayed off the axis.
	back := geom.Point{X: tip.X - arrowSize*dx, Y: tip.Y - arrowSize*dy}
	wing := geom.Point{X: -dy * arrowSize * 0.5, Y: dx * arrowSize * 0.5}

	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(back.X+wing.X, back.Y+wing.Y)
	dc.LineTo(back.X-wing.X, back.Y-wing.Y)
	dc.ClosePath()
	dc.Fill()
}
