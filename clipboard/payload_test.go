package clipboard

import (
	"errors"
	"testing"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
)

func samplePayload() Payload {
	amount := 12.5
	return Payload{
		Origin: geometry.Pt(100, 50),
		Elements: []diagram.Element{
			{ID: "a", Type: "rectangle", X: 0, Y: 0, Label: "A"},
			{ID: "b", Type: "ellipse", X: 200, Y: 40, Size: &geometry.Size{Width: 80, Height: 80}},
		},
		Connections: []diagram.Connection{
			{ID: "ab", SourceID: "a", TargetID: "b", LineStyle: diagram.LineArc, CurveAmount: &amount},
		},
	}
}

func TestMemoryBoardRoundTrip(t *testing.T) {
	var b MemoryBoard
	if _, err := b.Read(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Expected ErrEmpty from a new board, got %v", err)
	}

	want := samplePayload()
	if err := b.Write(want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := b.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got.Origin != want.Origin {
		t.Errorf("Expected origin %v, got %v", want.Origin, got.Origin)
	}
	if len(got.Elements) != 2 || got.Elements[1].Size == nil || got.Elements[1].Size.Width != 80 {
		t.Errorf("Elements not preserved: %+v", got.Elements)
	}
	if len(got.Connections) != 1 || got.Connections[0].CurveAmount == nil || *got.Connections[0].CurveAmount != 12.5 {
		t.Errorf("Connections not preserved: %+v", got.Connections)
	}
}

func TestDecodeRejectsForeignText(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrEmpty},
		{"whitespace", "  \n", ErrEmpty},
		{"plain text", "hello world", ErrFormat},
		{"other json", `{"format":"something-else","elements":[{"id":"x"}]}`, ErrFormat},
		{"no elements", `{"format":"` + Format + `","elements":[]}`, ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPayloadClone(t *testing.T) {
	p := samplePayload()
	c := p.Clone()
	c.Elements[1].Size.Width = 1
	*c.Connections[0].CurveAmount = 0

	if p.Elements[1].Size.Width != 80 {
		t.Error("Clone shares element sizes")
	}
	if *p.Connections[0].CurveAmount != 12.5 {
		t.Error("Clone shares curve amounts")
	}
	var empty *Payload
	if !empty.IsEmpty() {
		t.Error("nil payload should be empty")
	}
}
