package pathfinding

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"diagramstudio/geometry"
)

// PathCache stores previously computed routes keyed by a hash of the full
// request, so any change to endpoints, ports, style, waypoints or
// obstacles misses.
type PathCache struct {
	mu        sync.RWMutex
	cache     map[uint64]Route
	maxSize   int
	hits      int64 // Use atomic operations
	misses    int64 // Use atomic operations
	evictions int64 // Use atomic operations
}

// NewPathCache creates a new path cache with the specified maximum size.
// A size of zero or less disables eviction.
func NewPathCache(maxSize int) *PathCache {
	return &PathCache{
		cache:   make(map[uint64]Route),
		maxSize: maxSize,
	}
}

// Get retrieves a route from the cache if it exists.
func (pc *PathCache) Get(req PathRequest) (Route, bool) {
	key := HashRequest(req)

	pc.mu.RLock()
	r, found := pc.cache[key]
	pc.mu.RUnlock()

	if found {
		atomic.AddInt64(&pc.hits, 1)
	} else {
		atomic.AddInt64(&pc.misses, 1)
	}
	return r, found
}

// Put stores a route in the cache.
func (pc *PathCache) Put(req PathRequest, r Route) {
	key := HashRequest(req)

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if _, exists := pc.cache[key]; !exists && pc.maxSize > 0 && len(pc.cache) >= pc.maxSize {
		// Drop an arbitrary entry; routes are cheap to recompute.
		for k := range pc.cache {
			delete(pc.cache, k)
			atomic.AddInt64(&pc.evictions, 1)
			break
		}
	}
	pc.cache[key] = r
}

// Clear removes all entries from the cache.
func (pc *PathCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cache = make(map[uint64]Route)
	atomic.StoreInt64(&pc.hits, 0)
	atomic.StoreInt64(&pc.misses, 0)
	atomic.StoreInt64(&pc.evictions, 0)
}

// Stats returns cache statistics.
func (pc *PathCache) Stats() (hits, misses, evictions, size int) {
	pc.mu.RLock()
	size = len(pc.cache)
	pc.mu.RUnlock()

	hits = int(atomic.LoadInt64(&pc.hits))
	misses = int(atomic.LoadInt64(&pc.misses))
	evictions = int(atomic.LoadInt64(&pc.evictions))
	return hits, misses, evictions, size
}

// String returns a string representation of cache statistics.
func (pc *PathCache) String() string {
	hits, misses, evictions, size := pc.Stats()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}
	return fmt.Sprintf("PathCache[size=%d/%d, hits=%d, misses=%d, hitRate=%.1f%%, evictions=%d]",
		size, pc.maxSize, hits, misses, hitRate, evictions)
}

// HashRequest returns an FNV-1a hash of every field that affects routing.
func HashRequest(req PathRequest) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	num := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	pt := func(p geometry.Point) { num(p.X); num(p.Y) }
	rect := func(r geometry.Rect) { num(r.X); num(r.Y); num(r.Width); num(r.Height) }
	str := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	pt(req.Source)
	pt(req.Target)
	str(string(req.SourcePort))
	str(string(req.TargetPort))
	str(string(req.Style.Normalize()))

	if req.CurveAmount != nil {
		str("c")
		num(*req.CurveAmount)
	}
	str("w")
	for _, wp := range req.Waypoints {
		pt(wp)
	}
	str("o")
	for _, ob := range req.Obstacles {
		rect(ob)
	}
	if req.SourceBox != nil {
		str("sb")
		rect(*req.SourceBox)
	}
	if req.TargetBox != nil {
		str("tb")
		rect(*req.TargetBox)
	}
	return h.Sum64()
}
