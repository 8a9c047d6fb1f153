// Package tui is a terminal front-end for the interaction coordinator.
// Terminal cells map to fixed-size blocks of screen pixels, so the
// coordinator sees ordinary pointer coordinates.
package tui

import (
	"fmt"
	"slices"
	"time"

	"github.com/gdamore/tcell/v2"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/interaction"
	"diagramstudio/logging"
	"diagramstudio/viewport"
)

// Cell size in screen pixels.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Config configures an App.
type Config struct {
	Filename      string // Save target for Ctrl+S; empty disables saving
	Options       interaction.Options
	FrameInterval time.Duration
	NewType       string // Element type added with 'n'
}

// App couples a tcell screen, a store and a coordinator.
type App struct {
	screen   tcell.Screen
	store    *diagram.MemoryStore
	registry diagram.Registry
	view     *viewport.State
	coord    *interaction.Coordinator
	ticker   *Ticker
	cfg      Config

	buttons tcell.ButtonMask // Buttons held at the last mouse event
	last    geometry.Point   // Screen position of the last mouse event
	status  string
}

// New creates an app on an initialized screen.
func New(screen tcell.Screen, store *diagram.MemoryStore, reg diagram.Registry, cfg Config) *App {
	if cfg.NewType == "" {
		cfg.NewType = "rectangle"
	}
	a := &App{
		screen:   screen,
		store:    store,
		registry: reg,
		view:     viewport.NewState(viewport.Identity),
		ticker:   NewTicker(screen, cfg.FrameInterval),
		cfg:      cfg,
	}

	opts := cfg.Options
	opts.Frames = a.ticker
	opts.Listeners = mouseMode{screen: screen}
	opts.Container = a.containerSize()
	a.coord = interaction.NewCoordinator(store, reg, a.view, opts)
	mouseMode{screen: screen}.Detach()
	return a
}

// Coordinator returns the app's coordinator.
func (a *App) Coordinator() *interaction.Coordinator {
	return a.coord
}

// Viewport returns the current viewport.
func (a *App) Viewport() viewport.Viewport {
	return a.view.Viewport()
}

// Status returns the last status message.
func (a *App) Status() string {
	return a.status
}

func (a *App) containerSize() geometry.Size {
	w, h := a.screen.Size()
	return geometry.Size{Width: float64(w) * CellWidth, Height: float64(max(h-1, 0)) * CellHeight}
}

// cellToScreen returns the screen point at the center of a cell.
func cellToScreen(x, y int) geometry.Point {
	return geometry.Point{X: (float64(x) + 0.5) * CellWidth, Y: (float64(y) + 0.5) * CellHeight}
}

// Run draws and handles events until the user quits.
func (a *App) Run() error {
	defer a.ticker.Stop()
	for {
		a.Draw()
		a.screen.Show()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent processes one tcell event and reports whether to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.coord.SetContainer(a.containerSize())
	case *tcell.EventInterrupt:
		if _, ok := ev.Data().(frameTick); ok {
			a.coord.Tick()
		}
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return false
}

func modifiers(m tcell.ModMask) interaction.Modifiers {
	var out interaction.Modifiers
	if m&tcell.ModShift != 0 {
		out |= interaction.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= interaction.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= interaction.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= interaction.ModMeta
	}
	return out
}

func button(b tcell.ButtonMask) interaction.Button {
	switch {
	case b&tcell.Button1 != 0:
		return interaction.ButtonPrimary
	case b&tcell.Button3 != 0:
		return interaction.ButtonMiddle
	case b&tcell.Button2 != 0:
		return interaction.ButtonSecondary
	}
	return interaction.ButtonNone
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	p := cellToScreen(x, y)
	mods := modifiers(ev.Modifiers())
	btns := ev.Buttons()

	switch {
	case btns&tcell.WheelUp != 0:
		a.coord.Wheel(interaction.WheelEvent{Screen: p, DeltaY: -1, Mods: mods})
		return
	case btns&tcell.WheelDown != 0:
		a.coord.Wheel(interaction.WheelEvent{Screen: p, DeltaY: 1, Mods: mods})
		return
	}

	pressed := btns & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	prev := a.buttons
	a.buttons = pressed

	switch {
	case prev == 0 && pressed != 0:
		a.coord.PointerDown(interaction.PointerEvent{Screen: p, Button: button(pressed), Mods: mods, Target: a.coord.HitTest(p)})
	case prev != 0 && pressed != 0:
		if p != a.last {
			a.coord.PointerMove(interaction.PointerEvent{Screen: p, Button: button(pressed), Mods: mods})
		}
	case prev != 0 && pressed == 0:
		a.coord.PointerUp(interaction.PointerEvent{Screen: p, Button: button(prev), Mods: mods, Target: a.coord.HitTest(p)})
	}
	a.last = p
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	mods := modifiers(ev.Modifiers())
	switch ev.Key() {
	case tcell.KeyEscape:
		a.coord.KeyDown(interaction.KeyEvent{Key: interaction.KeyEscape})
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.coord.KeyDown(interaction.KeyEvent{Key: interaction.KeyDelete})
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlS:
		a.save()
	case tcell.KeyRune:
		if mods.Has(interaction.ModCtrl) || mods.Has(interaction.ModMeta) || !a.appKey(ev.Rune()) {
			a.coord.KeyDown(interaction.KeyEvent{Key: interaction.KeyRune, Rune: ev.Rune(), Mods: mods})
		}
		return ev.Rune() == 'q' && a.coord.CurrentMode() == interaction.ModeNone && mods == 0
	default:
		if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
			r := 'a' + rune(k-tcell.KeyCtrlA)
			a.coord.KeyDown(interaction.KeyEvent{Key: interaction.KeyRune, Rune: r, Mods: mods | interaction.ModCtrl})
		}
	}
	return false
}

// appKey handles the front-end's own single-key commands.
func (a *App) appKey(r rune) bool {
	if a.coord.CurrentMode() != interaction.ModeNone {
		return false
	}
	switch r {
	case 'q':
		return true
	case 'n':
		a.addElement()
	case 'r', 'R', 'b', 'B':
		a.quickCreate(r)
	case 'f':
		a.fit()
	case 'l':
		a.cycleLineStyle()
	default:
		return false
	}
	return true
}

// addElement places a new element at the center of the view.
func (a *App) addElement() {
	size := diagram.Element{Type: a.cfg.NewType}.EffectiveSize(a.registry)
	center := a.view.Viewport().ScreenToDiagram(geometry.Point{
		X: a.containerSize().Width / 2, Y: a.containerSize().Height / 2,
	})
	p := center.Sub(geometry.Point{X: size.Width / 2, Y: size.Height / 2}).Snap(a.coord.Options().GridSize)

	el := diagram.Element{ID: a.coord.Options().IDs.NewID("el"), Type: a.cfg.NewType, X: p.X, Y: p.Y}
	a.store.AddElement(el)
	a.store.SelectElement(el.ID, false)
	a.store.RecordHistory()
	a.status = fmt.Sprintf("added %s", el.ID)
}

func (a *App) quickCreate(r rune) {
	ids := a.store.SelectedElementIDs()
	if len(ids) != 1 {
		a.status = "select one element to extend"
		return
	}
	port := map[rune]diagram.PortID{
		'r': diagram.PortRight, 'R': diagram.PortLeft,
		'b': diagram.PortBottom, 'B': diagram.PortTop,
	}[r]
	if id, ok := a.coord.QuickCreate(ids[0], port); ok {
		a.status = fmt.Sprintf("added %s", id)
	}
}

func (a *App) fit() {
	var rects []geometry.Rect
	for _, e := range a.store.Elements() {
		rects = append(rects, e.Bounds(a.registry))
	}
	a.coord.Controls().FitToContent(rects, 2*CellWidth)
}

var lineStyles = []diagram.LineStyle{
	diagram.LineCurved, diagram.LineStraight, diagram.LineArc,
	diagram.LineSmart, diagram.LineStep, diagram.LineStepSharp,
}

// cycleLineStyle switches the selected connection to the next style.
func (a *App) cycleLineStyle() {
	conn, ok := a.store.Connection(a.store.SelectedConnectionID())
	if !ok {
		a.status = "select a connection to restyle"
		return
	}
	i := slices.Index(lineStyles, conn.LineStyle.Normalize())
	next := lineStyles[(i+1)%len(lineStyles)]
	a.store.UpdateConnection(conn.ID, diagram.ConnectionPatch{LineStyle: &next})
	a.store.RecordHistory()
	a.status = fmt.Sprintf("line style %s", next)
}

func (a *App) save() {
	if a.cfg.Filename == "" {
		a.status = "no file to save to"
		return
	}
	if err := diagram.SaveFile(a.cfg.Filename, a.store.Diagram()); err != nil {
		logging.Logger().Warn("save failed", "file", a.cfg.Filename, "error", err)
		a.status = fmt.Sprintf("save failed: %v", err)
		return
	}
	a.status = fmt.Sprintf("saved %s", a.cfg.Filename)
}
