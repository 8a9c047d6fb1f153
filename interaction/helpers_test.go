package interaction

import (
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/viewport"
)

// ===== Test helpers =====

// recordingStore counts the mutating and history calls made on a
// MemoryStore. Selection calls are not counted.
type recordingStore struct {
	*diagram.MemoryStore
	calls map[string]int
}

func newRecordingStore(els []diagram.Element, conns []diagram.Connection) *recordingStore {
	return &recordingStore{
		MemoryStore: diagram.NewMemoryStore(&diagram.Diagram{Elements: els, Connections: conns}),
		calls:       make(map[string]int),
	}
}

func (s *recordingStore) AddElement(e diagram.Element) {
	s.calls["AddElement"]++
	s.MemoryStore.AddElement(e)
}

func (s *recordingStore) UpdateElement(id string, p diagram.ElementPatch) {
	s.calls["UpdateElement"]++
	s.MemoryStore.UpdateElement(id, p)
}

func (s *recordingStore) RemoveElements(ids ...string) {
	s.calls["RemoveElements"]++
	s.MemoryStore.RemoveElements(ids...)
}

func (s *recordingStore) AddConnection(c diagram.Connection) {
	s.calls["AddConnection"]++
	s.MemoryStore.AddConnection(c)
}

func (s *recordingStore) UpdateConnection(id string, p diagram.ConnectionPatch) {
	s.calls["UpdateConnection"]++
	s.MemoryStore.UpdateConnection(id, p)
}

func (s *recordingStore) RemoveConnections(ids ...string) {
	s.calls["RemoveConnections"]++
	s.MemoryStore.RemoveConnections(ids...)
}

func (s *recordingStore) RecordHistory() {
	s.calls["RecordHistory"]++
	s.MemoryStore.RecordHistory()
}

func (s *recordingStore) mutations() int {
	n := 0
	for _, v := range s.calls {
		n += v
	}
	return n
}

type counter struct {
	starts, stops int
}

func (c *counter) Start()  { c.starts++ }
func (c *counter) Stop()   { c.stops++ }
func (c *counter) Attach() { c.starts++ }
func (c *counter) Detach() { c.stops++ }

func rect(id string, x, y, w, h float64) diagram.Element {
	return diagram.Element{ID: id, Type: "rectangle", X: x, Y: y, Size: &geometry.Size{Width: w, Height: h}}
}

func newTestCoordinator(t *testing.T, store diagram.Store, opts Options) (*Coordinator, *viewport.State) {
	t.Helper()
	if opts.IDs == nil {
		opts.IDs = diagram.NewSeededIDs("t")
	}
	view := viewport.NewState(viewport.Identity)
	return NewCoordinator(store, diagram.BasicRegistry(), view, opts), view
}

func press(x, y float64, target Target, mods ...Modifiers) PointerEvent {
	var m Modifiers
	for _, mod := range mods {
		m |= mod
	}
	return PointerEvent{Screen: geometry.Pt(x, y), Button: ButtonPrimary, Mods: m, Target: target}
}

func at(x, y float64) PointerEvent {
	return PointerEvent{Screen: geometry.Pt(x, y), Button: ButtonPrimary}
}

func onElement(id string) Target {
	return Target{Kind: TargetElement, ElementID: id}
}

func mustElement(t *testing.T, s diagram.Store, id string) diagram.Element {
	t.Helper()
	e, ok := s.Element(id)
	if !ok {
		t.Fatalf("Expected element %s to exist", id)
	}
	return e
}
