package diagram

import "diagramstudio/geometry"

// DefaultSize is used when neither the element nor its shape type declares a size.
var DefaultSize = geometry.Size{Width: 120, Height: 60}

// DefaultColor is used when neither the element nor its shape type declares a color.
const DefaultColor = "#ffffff"

// FrameType is the element type of the built-in container shape.
const FrameType = "frame"

// BasicPack is the id of the built-in shape pack.
const BasicPack = "basic"

// ShapeType describes the defaults of one shape in a pack.
type ShapeType struct {
	PackID    string
	Type      string
	Size      geometry.Size
	Color     string
	Ports     []PortID
	Container bool // Frames group other elements and never snap
}

// Registry resolves shape defaults. Implementations are read-only lookup tables.
type Registry interface {
	Lookup(packID, shapeType string) (ShapeType, bool)
}

type registryKey struct {
	pack, shape string
}

// StaticRegistry is a map-backed Registry.
type StaticRegistry struct {
	shapes map[registryKey]ShapeType
}

// NewStaticRegistry creates a registry holding the given shapes.
func NewStaticRegistry(shapes ...ShapeType) *StaticRegistry {
	r := &StaticRegistry{shapes: make(map[registryKey]ShapeType, len(shapes))}
	for _, s := range shapes {
		r.shapes[registryKey{s.PackID, s.Type}] = s
	}
	return r
}

// Lookup implements Registry. An empty pack id falls back to BasicPack.
func (r *StaticRegistry) Lookup(packID, shapeType string) (ShapeType, bool) {
	if r == nil {
		return ShapeType{}, false
	}
	if packID == "" {
		packID = BasicPack
	}
	s, ok := r.shapes[registryKey{packID, shapeType}]
	return s, ok
}

// BasicRegistry returns a registry with the built-in basic pack.
func BasicRegistry() *StaticRegistry {
	all := []PortID{PortTop, PortRight, PortBottom, PortLeft}
	return NewStaticRegistry(
		ShapeType{PackID: BasicPack, Type: "rectangle", Size: geometry.Size{Width: 120, Height: 60}, Color: "#ffffff", Ports: all},
		ShapeType{PackID: BasicPack, Type: "ellipse", Size: geometry.Size{Width: 100, Height: 100}, Color: "#e3f2fd", Ports: all},
		ShapeType{PackID: BasicPack, Type: "diamond", Size: geometry.Size{Width: 100, Height: 100}, Color: "#fff8e1", Ports: all},
		ShapeType{PackID: BasicPack, Type: "note", Size: geometry.Size{Width: 160, Height: 100}, Color: "#fff59d", Ports: all},
		ShapeType{PackID: BasicPack, Type: FrameType, Size: geometry.Size{Width: 400, Height: 300}, Color: "#f5f5f5", Container: true},
	)
}

// IsFrame reports whether the element is a container that must not snap.
func IsFrame(e Element, reg Registry) bool {
	if e.Type == FrameType {
		return true
	}
	if reg == nil {
		return false
	}
	st, ok := reg.Lookup(e.PackID, e.Type)
	return ok && st.Container
}
