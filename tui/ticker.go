package tui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

// DefaultFrameInterval is the edge-pan frame period (about 60 Hz).
const DefaultFrameInterval = 16 * time.Millisecond

// frameTick marks interrupt events posted by a Ticker.
type frameTick struct{}

// Ticker is an interaction.FrameSource that posts one interrupt event per
// frame to the screen's event queue. The event loop turns those into
// Coordinator.Tick calls, so ticks never run concurrently with other
// events.
type Ticker struct {
	screen   tcell.Screen
	interval time.Duration

	mu   sync.Mutex
	done chan struct{}
}

// NewTicker creates a stopped ticker.
func NewTicker(screen tcell.Screen, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Ticker{screen: screen, interval: interval}
}

// Start begins posting frames. It does nothing if already running.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done != nil {
		return
	}
	done := make(chan struct{})
	t.done = done

	go func() {
		tk := time.NewTicker(t.interval)
		defer tk.Stop()
		for {
			select {
			case <-done:
				return
			case <-tk.C:
				t.screen.PostEvent(tcell.NewEventInterrupt(frameTick{}))
			}
		}
	}()
}

// Stop ends the frame loop. It does nothing if not running.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done == nil {
		return
	}
	close(t.done)
	t.done = nil
}

// Running reports whether frames are being posted.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done != nil
}

// mouseMode switches tcell mouse reporting with the coordinator's mode:
// button events only while idle, every motion during a gesture.
type mouseMode struct {
	screen tcell.Screen
}

func (m mouseMode) Attach() {
	m.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents | tcell.MouseMotionEvents)
}

func (m mouseMode) Detach() {
	m.screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
}
