package diagram

import (
	"fmt"
	"strconv"
	"time"
)

// IDGenerator produces fresh ids for new elements and connections.
type IDGenerator interface {
	NewID(prefix string) string
}

// SequentialIDs hands out "<prefix>-<seed>-<n>" ids. The seed keeps ids
// from two sessions pasting into the same diagram apart.
type SequentialIDs struct {
	seed string
	next int
}

// NewSequentialIDs creates a generator seeded from the clock.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{seed: strconv.FormatInt(time.Now().UnixNano()%0xffffff, 36)}
}

// NewSeededIDs creates a generator with a fixed seed, for deterministic ids.
func NewSeededIDs(seed string) *SequentialIDs {
	return &SequentialIDs{seed: seed}
}

// NewID implements IDGenerator.
func (g *SequentialIDs) NewID(prefix string) string {
	g.next++
	if g.seed == "" {
		return fmt.Sprintf("%s-%d", prefix, g.next)
	}
	return fmt.Sprintf("%s-%s-%d", prefix, g.seed, g.next)
}

// EnsureUniqueIDs assigns fresh ids to elements and connections whose id
// is empty or already used. The first holder of a duplicated id keeps it,
// so existing connection endpoints keep resolving to it.
func EnsureUniqueIDs(d *Diagram, gen IDGenerator) {
	if d == nil {
		return
	}

	seen := make(map[string]bool, len(d.Elements))
	for i := range d.Elements {
		id := d.Elements[i].ID
		if id == "" || seen[id] {
			d.Elements[i].ID = gen.NewID("el")
		}
		seen[d.Elements[i].ID] = true
	}

	seenConn := make(map[string]bool, len(d.Connections))
	for i := range d.Connections {
		id := d.Connections[i].ID
		if id == "" || seenConn[id] {
			d.Connections[i].ID = gen.NewID("conn")
		}
		seenConn[d.Connections[i].ID] = true
	}
}
