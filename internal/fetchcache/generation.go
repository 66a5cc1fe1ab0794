package fetchcache

import "sync"

// Generations tracks invalidations of keys that have loads in flight.
//
// A load that began before a write may return the pre-write value after the
// write path has already deleted the key. When the key was invalidated
// while the load ran, the Fetcher deletes the entry it just wrote so the
// stale value does not live for a full TTL.
//
// Only keys with loads in flight are tracked. A nil *Generations disables
// tracking.
type Generations struct {
	mu   sync.Mutex
	keys map[string]*generation
}

type generation struct {
	seq   uint64
	loads int
}

// NewGenerations creates an empty tracker.
func NewGenerations() *Generations {
	return &Generations{keys: make(map[string]*generation)}
}

// Invalidate marks every load of key currently in flight as superseded.
func (g *Generations) Invalidate(key string) {
	if g == nil {
		return
	}
	g.mu.Lock()
	if e, ok := g.keys[key]; ok {
		e.seq++
	}
	g.mu.Unlock()
}

// begin registers a load of key and returns the generation it started in.
func (g *Generations) begin(key string) uint64 {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.keys[key]
	if !ok {
		e = &generation{}
		g.keys[key] = e
	}
	e.loads++
	return e.seq
}

// end unregisters a load of key and reports whether key was invalidated
// since the matching begin.
func (g *Generations) end(key string, seq uint64) (superseded bool) {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.keys[key]
	if !ok {
		return false
	}
	superseded = e.seq != seq
	e.loads--
	if e.loads <= 0 {
		delete(g.keys, key)
	}
	return superseded
}
