// Package preview rasterizes a diagram with its computed connector routes.
// It is a debugging aid for the router: obstacles, ports and routes are
// drawn exactly as the engine computes them.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/interaction"
	"diagramstudio/pathfinding"
	"diagramstudio/snapping"
)

// ErrEmpty is returned when there is nothing to draw.
var ErrEmpty = errors.New("nothing to render")

// Options controls the rendering.
type Options struct {
	Scale         float64 // Pixels per diagram unit
	Padding       float64 // Diagram units around the content
	FontSize      float64
	ShowPorts     bool
	ShowWaypoints bool
	ArrowSize     float64
}

// DefaultOptions returns the options used by the routeviz tool.
func DefaultOptions() Options {
	return Options{Scale: 1, Padding: 20, FontSize: 12, ShowPorts: true, ShowWaypoints: true, ArrowSize: 8}
}

var (
	background  = color.White
	lineColor   = color.RGBA{0x33, 0x33, 0x33, 0xff}
	borderColor = color.RGBA{0x44, 0x44, 0x44, 0xff}
	portColor   = color.RGBA{0x1e, 0x88, 0xe5, 0xff}
	guideColor  = color.RGBA{0xe9, 0x1e, 0x63, 0xff}
	frameFill   = color.RGBA{0xf5, 0xf5, 0xf5, 0xff}
)

// Renderer draws diagrams through a Router.
type Renderer struct {
	registry diagram.Registry
	router   *pathfinding.Router
	opts     Options
	face     font.Face
}

// NewRenderer creates a renderer with the built-in monospace face.
func NewRenderer(reg diagram.Registry, router *pathfinding.Router, opts Options) (*Renderer, error) {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 12
	}
	if router == nil {
		router = pathfinding.NewRouter(reg, nil)
	}

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	return &Renderer{registry: reg, router: router, opts: opts, face: face}, nil
}

// Bounds returns the diagram-space area the image covers.
func (r *Renderer) Bounds(d *diagram.Diagram) (geometry.Rect, bool) {
	var rects []geometry.Rect
	for _, e := range d.Elements {
		rects = append(rects, e.Bounds(r.registry))
	}
	for _, c := range d.Connections {
		for _, wp := range c.Waypoints {
			rects = append(rects, geometry.RectAt(wp, geometry.Size{}))
		}
	}
	b, ok := geometry.Bounds(rects)
	if !ok {
		return geometry.Rect{}, false
	}
	return b.Inset(r.opts.Padding), true
}

// Render draws d with the optional interaction overlay on top.
func (r *Renderer) Render(d *diagram.Diagram, overlay *interaction.Overlay) (image.Image, error) {
	if d == nil || len(d.Elements) == 0 {
		return nil, ErrEmpty
	}
	b, _ := r.Bounds(d)
	s := r.opts.Scale
	w := int(math.Ceil(b.Width * s))
	h := int(math.Ceil(b.Height * s))

	dc := gg.NewContext(w, h)
	dc.SetColor(background)
	dc.Clear()
	dc.SetFontFace(r.face)
	dc.Scale(s, s)
	dc.Translate(-b.X, -b.Y)

	elements := d.Elements
	if overlay != nil {
		elements = applyOverlay(elements, *overlay)
	}

	// Frames first, connections behind shapes.
	for _, e := range elements {
		if diagram.IsFrame(e, r.registry) {
			r.drawElement(dc, e)
		}
	}
	for _, c := range d.Connections {
		if overlay != nil && overlay.Connection != nil && overlay.Connection.ID == c.ID {
			c = *overlay.Connection
		}
		if route, ok := r.router.Route(c, elements); ok {
			r.drawRoute(dc, route, c)
		}
	}
	for _, e := range elements {
		if !diagram.IsFrame(e, r.registry) {
			r.drawElement(dc, e)
		}
	}
	if overlay != nil {
		r.drawOverlay(dc, *overlay)
	}
	return dc.Image(), nil
}

// SavePNG renders d and writes it to path.
func (r *Renderer) SavePNG(d *diagram.Diagram, path string) error {
	img, err := r.Render(d, nil)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func applyOverlay(elements []diagram.Element, o interaction.Overlay) []diagram.Element {
	out := make([]diagram.Element, len(elements))
	for i, e := range elements {
		e = e.Clone()
		if p, ok := o.Positions[e.ID]; ok {
			e.X, e.Y = p.X, p.Y
		}
		if sz, ok := o.Sizes[e.ID]; ok {
			e.Size = &sz
		}
		out[i] = e
	}
	return out
}

func (r *Renderer) drawElement(dc *gg.Context, e diagram.Element) {
	b := e.Bounds(r.registry)
	if diagram.IsFrame(e, r.registry) {
		dc.SetColor(frameFill)
	} else {
		dc.SetHexColor(e.EffectiveColor(r.registry))
	}
	dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
	dc.FillPreserve()
	dc.SetColor(borderColor)
	dc.SetLineWidth(1)
	dc.Stroke()

	if e.Label != "" {
		c := b.Center()
		dc.DrawStringAnchored(e.Label, c.X, c.Y, 0.5, 0.5)
	}

	if r.opts.ShowPorts {
		dc.SetColor(portColor)
		for _, p := range diagram.SidePorts {
			pt := pathfinding.PortPosition(b, p)
			dc.DrawCircle(pt.X, pt.Y, 2.5)
			dc.Fill()
		}
	}
}

func (r *Renderer) drawRoute(dc *gg.Context, route pathfinding.Route, c diagram.Connection) {
	dc.SetColor(lineColor)
	dc.SetLineWidth(2)
	tracePath(dc, route.Path)
	dc.Stroke()

	pts := route.Path.Flatten(8)
	if n := len(pts); n >= 2 && r.opts.ArrowSize > 0 {
		drawArrow(dc, pts[n-2], pts[n-1], r.opts.ArrowSize)
	}

	if r.opts.ShowWaypoints {
		dc.SetColor(portColor)
		for _, wp := range c.Waypoints {
			dc.DrawRectangle(wp.X-3, wp.Y-3, 6, 6)
			dc.Fill()
		}
	}
}

// tracePath replays a route path on the context.
func tracePath(dc *gg.Context, p pathfinding.Path) {
	for _, el := range p.Elements() {
		switch e := el.(type) {
		case pathfinding.MoveTo:
			dc.MoveTo(e.Point.X, e.Point.Y)
		case pathfinding.LineTo:
			dc.LineTo(e.Point.X, e.Point.Y)
		case pathfinding.QuadTo:
			dc.QuadraticTo(e.Control.X, e.Control.Y, e.Point.X, e.Point.Y)
		case pathfinding.CubicTo:
			dc.CubicTo(e.Control1.X, e.Control1.Y, e.Control2.X, e.Control2.Y, e.Point.X, e.Point.Y)
		}
	}
}

func drawArrow(dc *gg.Context, from, to geometry.Point, size float64) {
	dir := to.Sub(from)
	if dir.Length() < 0.1 {
		return
	}
	dir = dir.Unit()
	side := dir.Perp().Scale(size / 2)
	base := to.Sub(dir.Scale(size))
	a, b := base.Add(side), base.Sub(side)

	dc.MoveTo(to.X, to.Y)
	dc.LineTo(a.X, a.Y)
	dc.LineTo(b.X, b.Y)
	dc.ClosePath()
	dc.Fill()
}

func (r *Renderer) drawOverlay(dc *gg.Context, o interaction.Overlay) {
	dc.SetColor(guideColor)
	dc.SetLineWidth(1)
	for _, g := range o.Guides {
		if g.Orientation == snapping.Vertical {
			dc.DrawLine(g.Position, g.From, g.Position, g.To)
		} else {
			dc.DrawLine(g.From, g.Position, g.To, g.Position)
		}
		dc.Stroke()
	}
	if l := o.ConnectionLine; l != nil {
		dc.SetDash(4, 4)
		dc.DrawLine(l[0].X, l[0].Y, l[1].X, l[1].Y)
		dc.Stroke()
		dc.SetDash()
	}
	if m := o.Marquee; m != nil {
		dc.SetRGBA(0.12, 0.53, 0.9, 0.15)
		dc.DrawRectangle(m.X, m.Y, m.Width, m.Height)
		dc.FillPreserve()
		dc.SetColor(portColor)
		dc.Stroke()
	}
}
