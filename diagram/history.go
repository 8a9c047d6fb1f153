package diagram

// History manages undo/redo using direct struct snapshots
type History struct {
	states  []*Diagram // Deep copies, oldest first
	current int        // Current position in history
	max     int        // Maximum number of states to keep
}

// NewHistory creates a new struct-based history manager
func NewHistory(max int) *History {
	if max <= 0 {
		max = 50
	}
	return &History{
		states:  make([]*Diagram, 0, max),
		current: -1,
		max:     max,
	}
}

// Save stores a deep copy of d and drops any redo states.
func (h *History) Save(d *Diagram) {
	clone := d.Clone()

	// If we're not at the end, truncate everything after current
	if h.current < len(h.states)-1 {
		h.states = h.states[:h.current+1]
	}

	h.states = append(h.states, clone)

	// If we exceed max, remove oldest
	if len(h.states) > h.max {
		h.states = h.states[1:]
	} else {
		h.current++
	}
}

// CanUndo returns true if we can undo
func (h *History) CanUndo() bool {
	return h.current > 0
}

// CanRedo returns true if we can redo
func (h *History) CanRedo() bool {
	return h.current < len(h.states)-1
}

// Undo goes back one state. It returns nil when there is nothing to undo.
func (h *History) Undo() *Diagram {
	if !h.CanUndo() {
		return nil
	}
	h.current--
	// Return a clone to prevent accidental modification of history
	return h.states[h.current].Clone()
}

// Redo goes forward one state. It returns nil when there is nothing to redo.
func (h *History) Redo() *Diagram {
	if !h.CanRedo() {
		return nil
	}
	h.current++
	return h.states[h.current].Clone()
}

// Clear clears all history
func (h *History) Clear() {
	h.states = h.states[:0]
	h.current = -1
}

// Stats returns current position and total states
func (h *History) Stats() (current, total int) {
	return h.current + 1, len(h.states)
}
