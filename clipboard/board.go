package clipboard

import (
	"fmt"
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// Board stores one encoded payload outside the coordinator.
type Board interface {
	Write(p Payload) error
	Read() (Payload, error)
}

// SystemBoard mirrors payloads to the operating system clipboard as JSON
// text, so selections survive between editor sessions.
type SystemBoard struct{}

// Available reports whether a system clipboard tool was found.
func (SystemBoard) Available() bool {
	return !sysclip.Unsupported
}

// Write implements Board.
func (SystemBoard) Write(p Payload) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := sysclip.WriteAll(string(data)); err != nil {
		return fmt.Errorf("failed to write system clipboard: %w", err)
	}
	return nil
}

// Read implements Board.
func (SystemBoard) Read() (Payload, error) {
	text, err := sysclip.ReadAll()
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read system clipboard: %w", err)
	}
	return Decode([]byte(text))
}

// MemoryBoard keeps the encoded payload in memory. Safe for concurrent use.
type MemoryBoard struct {
	mu   sync.Mutex
	data []byte
}

// Write implements Board.
func (b *MemoryBoard) Write(p Payload) error {
	data, err := Encode(p)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.data = data
	b.mu.Unlock()
	return nil
}

// Read implements Board.
func (b *MemoryBoard) Read() (Payload, error) {
	b.mu.Lock()
	data := b.data
	b.mu.Unlock()
	return Decode(data)
}
