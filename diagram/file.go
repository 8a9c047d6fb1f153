package diagram

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a JSON diagram, repairs missing or duplicate ids and
// validates connection endpoints.
func LoadFile(filename string) (*Diagram, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var d Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	EnsureUniqueIDs(&d, NewSequentialIDs())
	if err := Validate(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SaveFile writes the diagram as indented JSON.
func SaveFile(filename string, d *Diagram) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// Validate checks that every connection references existing, distinct elements.
func Validate(d *Diagram) error {
	ids := make(map[string]bool, len(d.Elements))
	for _, el := range d.Elements {
		ids[el.ID] = true
	}
	for _, conn := range d.Connections {
		if !ids[conn.SourceID] {
			return fmt.Errorf("connection %s references non-existent source %q: %w", conn.ID, conn.SourceID, ErrNotFound)
		}
		if !ids[conn.TargetID] {
			return fmt.Errorf("connection %s references non-existent target %q: %w", conn.ID, conn.TargetID, ErrNotFound)
		}
		if conn.SourceID == conn.TargetID {
			return fmt.Errorf("connection %s: %w", conn.ID, ErrSelfConnection)
		}
	}
	return nil
}
