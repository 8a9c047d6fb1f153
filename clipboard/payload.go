// Package clipboard holds the copied-selection payload and the boards it
// can be mirrored to.
package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

// Format tags encoded payloads so foreign clipboard text is rejected.
const Format = "diagramstudio/selection+json;v=1"

// Common errors
var (
	ErrEmpty  = errors.New("clipboard is empty")
	ErrFormat = errors.New("clipboard does not hold a diagram selection")
)

// Payload is a copied selection. Element positions and connection
// waypoints are relative to Origin, the top-left corner of the selection's
// bounding box when it was copied. Connections only reference elements inside the payload.
type Payload struct {
	Format      string               `json:"format"`
	Origin      geometry.Point       `json:"origin"`
	Elements    []diagram.Element    `json:"elements"`
	Connections []diagram.Connection `json:"connections,omitempty"`
}

// IsEmpty reports whether the payload holds no elements.
func (p *Payload) IsEmpty() bool {
	return p == nil || len(p.Elements) == 0
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	c := p
	c.Elements = make([]diagram.Element, len(p.Elements))
	for i, e := range p.Elements {
		c.Elements[i] = e.Clone()
	}
	c.Connections = make([]diagram.Connection, len(p.Connections))
	for i, conn := range p.Connections {
		c.Connections[i] = conn.Clone()
	}
	return c
}

// Encode serializes the payload as JSON text.
func Encode(p Payload) ([]byte, error) {
	p.Format = Format
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selection: %w", err)
	}
	return data, nil
}

// Decode parses text produced by Encode.
func Decode(data []byte) (Payload, error) {
	if strings.TrimSpace(string(data)) == "" {
		return Payload{}, ErrEmpty
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if p.Format != Format {
		return Payload{}, ErrFormat
	}
	if len(p.Elements) == 0 {
		return Payload{}, ErrEmpty
	}
	return p, nil
}
