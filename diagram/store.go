package diagram

import (
	"slices"
)

// MemoryStore is an in-memory Store with struct-snapshot undo history.
// It is not safe for concurrent use; the coordinator drives it from a
// single event loop.
type MemoryStore struct {
	diagram      *Diagram
	selected     []string // Selected element ids in selection order
	selectedConn string   // Selected connection id ("" for none)
	history      *History
}

// NewMemoryStore creates a store over a copy of d (nil for an empty
// diagram) and records the initial state.
func NewMemoryStore(d *Diagram) *MemoryStore {
	if d == nil {
		d = &Diagram{}
	}
	s := &MemoryStore{
		diagram: d.Clone(),
		history: NewHistory(500),
	}
	s.history.Save(s.diagram)
	return s
}

// Diagram returns a deep copy of the current diagram.
func (s *MemoryStore) Diagram() *Diagram {
	return s.diagram.Clone()
}

// Elements implements Store.
func (s *MemoryStore) Elements() []Element {
	return slices.Clone(s.diagram.Elements)
}

// Connections implements Store.
func (s *MemoryStore) Connections() []Connection {
	return slices.Clone(s.diagram.Connections)
}

// Element implements Store.
func (s *MemoryStore) Element(id string) (Element, bool) {
	return s.diagram.Element(id)
}

// Connection implements Store.
func (s *MemoryStore) Connection(id string) (Connection, bool) {
	for _, c := range s.diagram.Connections {
		if c.ID == id {
			return c, true
		}
	}
	return Connection{}, false
}

// AddElement implements Store.
func (s *MemoryStore) AddElement(e Element) {
	s.diagram.Elements = append(s.diagram.Elements, e.Clone())
}

// UpdateElement implements Store. Unknown ids are ignored.
func (s *MemoryStore) UpdateElement(id string, patch ElementPatch) {
	for i := range s.diagram.Elements {
		if s.diagram.Elements[i].ID == id {
			patch.Apply(&s.diagram.Elements[i])
			return
		}
	}
}

// RemoveElements implements Store. Connections touching a removed element
// are removed with it.
func (s *MemoryStore) RemoveElements(ids ...string) {
	if len(ids) == 0 {
		return
	}
	s.diagram.Elements = slices.DeleteFunc(s.diagram.Elements, func(e Element) bool {
		return slices.Contains(ids, e.ID)
	})
	s.diagram.Connections = slices.DeleteFunc(s.diagram.Connections, func(c Connection) bool {
		return slices.Contains(ids, c.SourceID) || slices.Contains(ids, c.TargetID)
	})
	s.selected = slices.DeleteFunc(s.selected, func(id string) bool {
		return slices.Contains(ids, id)
	})
	s.pruneConnectionSelection()
}

// AddConnection implements Store.
func (s *MemoryStore) AddConnection(c Connection) {
	s.diagram.Connections = append(s.diagram.Connections, c.Clone())
}

// UpdateConnection implements Store. Unknown ids are ignored.
func (s *MemoryStore) UpdateConnection(id string, patch ConnectionPatch) {
	for i := range s.diagram.Connections {
		if s.diagram.Connections[i].ID == id {
			patch.Apply(&s.diagram.Connections[i])
			return
		}
	}
}

// RemoveConnections implements Store.
func (s *MemoryStore) RemoveConnections(ids ...string) {
	s.diagram.Connections = slices.DeleteFunc(s.diagram.Connections, func(c Connection) bool {
		return slices.Contains(ids, c.ID)
	})
	s.pruneConnectionSelection()
}

// SelectElement implements Store. A non-additive select replaces the
// selection and clears any selected connection.
func (s *MemoryStore) SelectElement(id string, additive bool) {
	if _, ok := s.Element(id); !ok {
		return
	}
	if !additive {
		s.selected = s.selected[:0]
		s.selectedConn = ""
	}
	if !slices.Contains(s.selected, id) {
		s.selected = append(s.selected, id)
	}
}

// SelectConnection implements Store.
func (s *MemoryStore) SelectConnection(id string) {
	s.selected = s.selected[:0]
	s.selectedConn = id
}

// ClearSelection implements Store.
func (s *MemoryStore) ClearSelection() {
	s.selected = s.selected[:0]
	s.selectedConn = ""
}

// SelectedElementIDs implements Store.
func (s *MemoryStore) SelectedElementIDs() []string {
	return slices.Clone(s.selected)
}

// SelectedConnectionID implements Store.
func (s *MemoryStore) SelectedConnectionID() string {
	return s.selectedConn
}

// RecordHistory implements Store.
func (s *MemoryStore) RecordHistory() {
	s.history.Save(s.diagram)
}

// HistoryStats returns the current position and number of snapshots.
func (s *MemoryStore) HistoryStats() (current, total int) {
	return s.history.Stats()
}

// Undo restores the previous snapshot.
func (s *MemoryStore) Undo() bool {
	d := s.history.Undo()
	if d == nil {
		return false
	}
	s.restore(d)
	return true
}

// Redo restores the next snapshot.
func (s *MemoryStore) Redo() bool {
	d := s.history.Redo()
	if d == nil {
		return false
	}
	s.restore(d)
	return true
}

func (s *MemoryStore) restore(d *Diagram) {
	s.diagram = d
	s.selected = slices.DeleteFunc(s.selected, func(id string) bool {
		_, ok := s.diagram.Element(id)
		return !ok
	})
	s.pruneConnectionSelection()
}

func (s *MemoryStore) pruneConnectionSelection() {
	if s.selectedConn == "" {
		return
	}
	if _, ok := s.Connection(s.selectedConn); !ok {
		s.selectedConn = ""
	}
}
