package tui

import (
	"fmt"
	"math"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/interaction"
	"diagramstudio/snapping"
	"diagramstudio/viewport"
)

var (
	styleDefault  = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLine     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleActive   = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleGuide    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// cellRect is an inclusive range of terminal cells.
type cellRect struct {
	x0, y0, x1, y1 int
}

// toCell maps a screen point to the cell containing it.
func toCell(p geometry.Point) (int, int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// cellsOf maps a diagram rect to the cells it covers, at least 2x2.
func cellsOf(v viewport.Viewport, r geometry.Rect) cellRect {
	a := v.DiagramToScreen(r.Min())
	b := v.DiagramToScreen(r.Max())
	x0, y0 := toCell(a)
	x1 := int(math.Ceil(b.X/CellWidth)) - 1
	y1 := int(math.Ceil(b.Y/CellHeight)) - 1
	return cellRect{x0, y0, max(x1, x0+1), max(y1, y0+1)}
}

// Draw renders the diagram and the active gesture's overlay.
func (a *App) Draw() {
	a.screen.Clear()
	v := a.view.Viewport()
	o := a.coord.Overlay()

	elements := a.store.Elements()
	for i, e := range elements {
		e = e.Clone()
		if p, ok := o.Positions[e.ID]; ok {
			e.X, e.Y = p.X, p.Y
		}
		if sz, ok := o.Sizes[e.ID]; ok {
			e.Size = &sz
		}
		elements[i] = e
	}

	selected := a.store.SelectedElementIDs()
	if o.MarqueeIDs != nil {
		selected = o.MarqueeIDs
	}
	selConn := a.store.SelectedConnectionID()

	// Frames behind connections, connections behind shapes.
	for _, e := range elements {
		if diagram.IsFrame(e, a.registry) {
			a.drawBox(v, e, slices.Contains(selected, e.ID))
		}
	}
	for _, c := range a.store.Connections() {
		style := styleLine
		if c.ID == selConn {
			style = styleSelected
		}
		if o.Connection != nil && o.Connection.ID == c.ID {
			c = *o.Connection
			style = styleActive
		}
		if route, ok := a.coord.Router().Route(c, elements); ok {
			a.drawPolyline(v, route.Path.Flatten(flattenSteps), style)
			a.drawArrowHead(v, route.Points, style)
		}
	}
	for _, e := range elements {
		if !diagram.IsFrame(e, a.registry) {
			a.drawBox(v, e, slices.Contains(selected, e.ID))
		}
	}

	a.drawOverlay(v, o)
	a.drawStatus(v)
}

const flattenSteps = 8

func (a *App) set(x, y int, r rune, style tcell.Style) {
	w, h := a.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-1 {
		return
	}
	a.screen.SetContent(x, y, r, nil, style)
}

// drawText writes s from (x, y), clipped to width cells.
func (a *App) drawText(x, y int, s string, width int, style tcell.Style) {
	s = runewidth.Truncate(s, width, "…")
	for _, r := range s {
		a.set(x, y, r, style)
		x += runewidth.RuneWidth(r)
	}
}

func (a *App) drawBox(v viewport.Viewport, e diagram.Element, selected bool) {
	r := cellsOf(v, e.Bounds(a.registry))
	style := styleDefault
	if selected {
		style = styleSelected
	}
	if c := e.EffectiveColor(a.registry); c != "" && !selected {
		style = style.Foreground(tcell.GetColor(c))
	}

	h, vert := '─', '│'
	corners := [4]rune{'┌', '┐', '└', '┘'}
	if diagram.IsFrame(e, a.registry) {
		h, vert = '╌', '╎'
	}
	if e.Locked {
		corners = [4]rune{'╔', '╗', '╚', '╝'}
	}

	for x := r.x0 + 1; x < r.x1; x++ {
		a.set(x, r.y0, h, style)
		a.set(x, r.y1, h, style)
	}
	for y := r.y0 + 1; y < r.y1; y++ {
		a.set(r.x0, y, vert, style)
		a.set(r.x1, y, vert, style)
		for x := r.x0 + 1; x < r.x1; x++ {
			a.set(x, y, ' ', style)
		}
	}
	a.set(r.x0, r.y0, corners[0], style)
	a.set(r.x1, r.y0, corners[1], style)
	a.set(r.x0, r.y1, corners[2], style)
	a.set(r.x1, r.y1, corners[3], style)

	label := e.Label
	if label == "" {
		label = e.ID
	}
	inner := r.x1 - r.x0 - 1
	if inner <= 0 {
		return
	}
	lw := min(runewidth.StringWidth(label), inner)
	y := (r.y0 + r.y1) / 2
	if r.y1-r.y0 < 2 {
		y = r.y0
	}
	a.drawText(r.x0+1+(inner-lw)/2, y, label, inner, style)
}

// drawPolyline plots each segment with Bresenham's algorithm.
func (a *App) drawPolyline(v viewport.Viewport, pts []geometry.Point, style tcell.Style) {
	for i := 1; i < len(pts); i++ {
		x0, y0 := toCell(v.DiagramToScreen(pts[i-1]))
		x1, y1 := toCell(v.DiagramToScreen(pts[i]))
		a.drawLine(x0, y0, x1, y1, style)
	}
}

func (a *App) drawLine(x0, y0, x1, y1 int, style tcell.Style) {
	ch := '·'
	switch {
	case y0 == y1:
		ch = '─'
	case x0 == x1:
		ch = '│'
	}

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		a.set(x0, y0, ch, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) drawArrowHead(v viewport.Viewport, pts []geometry.Point, style tcell.Style) {
	n := len(pts)
	if n < 2 {
		return
	}
	dir := pts[n-1].Sub(pts[n-2])
	head := '►'
	switch {
	case math.Abs(dir.Y) > math.Abs(dir.X) && dir.Y > 0:
		head = '▼'
	case math.Abs(dir.Y) > math.Abs(dir.X):
		head = '▲'
	case dir.X < 0:
		head = '◄'
	}
	// Step back out of the target's border.
	x, y := toCell(v.DiagramToScreen(pts[n-1].Sub(dir.Unit().Scale(CellWidth / v.Scale))))
	a.set(x, y, head, style)
}

func (a *App) drawOverlay(v viewport.Viewport, o interaction.Overlay) {
	for _, g := range o.Guides {
		var from, to geometry.Point
		if g.Orientation == snapping.Vertical {
			from, to = geometry.Pt(g.Position, g.From), geometry.Pt(g.Position, g.To)
		} else {
			from, to = geometry.Pt(g.From, g.Position), geometry.Pt(g.To, g.Position)
		}
		a.drawPolyline(v, []geometry.Point{from, to}, styleGuide)
	}
	if l := o.ConnectionLine; l != nil {
		a.drawPolyline(v, l[:], styleActive)
	}
	if m := o.Marquee; m != nil {
		r := cellsOf(v, *m)
		for x := r.x0; x <= r.x1; x++ {
			a.set(x, r.y0, '┈', styleActive)
			a.set(x, r.y1, '┈', styleActive)
		}
		for y := r.y0; y <= r.y1; y++ {
			a.set(r.x0, y, '┊', styleActive)
			a.set(r.x1, y, '┊', styleActive)
		}
	}
}

func (a *App) drawStatus(v viewport.Viewport) {
	w, h := a.screen.Size()
	if h == 0 {
		return
	}
	y := h - 1
	for x := 0; x < w; x++ {
		a.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	cur, total := a.store.HistoryStats()
	line := fmt.Sprintf(" %s | %s | %d%% | history %d/%d",
		a.coord.Tool(), a.coord.CurrentMode(), int(math.Round(v.Scale*100)), cur, total)
	if a.status != "" {
		line += " | " + a.status
	}
	x := 0
	for _, r := range runewidth.Truncate(line, w, "…") {
		a.screen.SetContent(x, y, r, nil, styleStatus)
		x += runewidth.RuneWidth(r)
	}
}
