package reconcile

import "sync"

// Generations tags requests per key so that only the most recently begun
// request for a key may publish its result.
type Generations struct {
	mu      sync.Mutex
	current map[string]uint64
}

func NewGenerations() *Generations {
	return &Generations{current: make(map[string]uint64)}
}

// Begin starts a new request for key and returns its generation.
func (g *Generations) Begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current[key]++
	return g.current[key]
}

// IsCurrent reports whether gen is still the latest request for key.
func (g *Generations) IsCurrent(key string, gen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current[key] == gen
}
